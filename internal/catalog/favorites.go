package catalog

import (
	"sort"
	"sync"

	"watch-storefront-backend/internal/models"
)

// Favorites is one user's set of favorited watch ids.
type Favorites struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewFavorites(ids ...string) *Favorites {
	f := &Favorites{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return f
}

// Toggle flips membership and reports whether id is now a favorite.
func (f *Favorites) Toggle(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.ids[id]; ok {
		delete(f.ids, id)
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

func (f *Favorites) Has(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

func (f *Favorites) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]string, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Filter keeps favorited items, preserving order.
func (f *Favorites) Filter(items []models.Watch) []models.Watch {
	out := make([]models.Watch, 0, len(items))
	for _, w := range items {
		if f.Has(w.ID) {
			out = append(out, w)
		}
	}
	return out
}
