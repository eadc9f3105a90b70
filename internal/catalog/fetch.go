package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

// Source reads the whole catalog collection. There is no server-side
// filtering or pagination.
type Source interface {
	FetchAll(ctx context.Context) ([]RawRecord, error)
}

// StoreSource reads catalog records from a document store.
type StoreSource struct {
	Store docstore.Store
}

func (s StoreSource) FetchAll(ctx context.Context) ([]RawRecord, error) {
	docs, err := s.Store.List(ctx, models.CollectionWatches)
	if err != nil {
		return nil, err
	}
	records := make([]RawRecord, len(docs))
	for i, doc := range docs {
		records[i] = RawRecord{ID: doc.ID, Data: doc.Data}
	}
	return records, nil
}

// State is what list views observe: the normalized items, whether the first
// load is still outstanding, and the last fetch error as text.
type State struct {
	Items   []models.Watch
	Loading bool
	Error   string
}

// Fetcher loads the catalog once per mount.
type Fetcher struct {
	source Source
	now    func() time.Time

	mu     sync.Mutex
	state  State
	loaded bool
}

func NewFetcher(source Source) *Fetcher {
	return &Fetcher{
		source: source,
		now:    time.Now,
		state:  State{Items: []models.Watch{}, Loading: true},
	}
}

// WithClock replaces the clock used for newArrival.
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// Load fetches on first call and returns the cached state afterwards.
func (f *Fetcher) Load(ctx context.Context) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loaded {
		return f.snapshot()
	}
	f.fetch(ctx)
	return f.snapshot()
}

// Reload is an explicit remount: it fetches again. Loading stays false if an
// earlier load already completed.
func (f *Fetcher) Reload(ctx context.Context) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetch(ctx)
	return f.snapshot()
}

// State returns the current state without fetching.
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Fetcher) fetch(ctx context.Context) {
	records, err := f.source.FetchAll(ctx)
	f.loaded = true
	f.state.Loading = false
	if err != nil {
		f.state.Error = fmt.Sprintf("failed to fetch watches: %v", err)
		f.state.Items = []models.Watch{}
		return
	}

	now := f.now()
	items := make([]models.Watch, len(records))
	for i, rec := range records {
		items[i] = Normalize(rec, now)
	}
	f.state.Items = items
	f.state.Error = ""
}

func (f *Fetcher) snapshot() State {
	items := make([]models.Watch, len(f.state.Items))
	copy(items, f.state.Items)
	return State{Items: items, Loading: f.state.Loading, Error: f.state.Error}
}
