package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/models"
)

// Memory is an in-process Store that also publishes change events the same
// way the Postgres trigger does: every insert, plus payment status changes.
type Memory struct {
	mu     sync.RWMutex
	docs   map[string]map[string]*models.Document
	order  map[string][]string
	subs   []chan models.ChangeEvent
	now    func() time.Time
	buffer int
	log    *logrus.Entry
}

func NewMemory() *Memory {
	return &Memory{
		docs:   make(map[string]map[string]*models.Document),
		order:  make(map[string][]string),
		now:    time.Now,
		buffer: 64,
		log:    logrus.NewEntry(logrus.StandardLogger()).WithField("component", "docstore"),
	}
}

// SetLogger replaces the entry used to report dropped change events.
func (m *Memory) SetLogger(log *logrus.Entry) {
	m.mu.Lock()
	m.log = log
	m.mu.Unlock()
}

// SetClock overrides the creation timestamp source.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *Memory) Create(ctx context.Context, collection string, data map[string]interface{}) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, _ := data["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}

	m.mu.Lock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]*models.Document)
	}
	if _, exists := m.docs[collection][id]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("document %s/%s already exists", collection, id)
	}
	now := m.now()
	doc := &models.Document{
		Collection: collection,
		ID:         id,
		Data:       copyMap(data),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	delete(doc.Data, "id")
	m.docs[collection][id] = doc
	m.order[collection] = append(m.order[collection], id)
	out := cloneDoc(doc)
	m.mu.Unlock()

	m.publish(models.ChangeEvent{Collection: collection, DocumentID: id, Operation: models.OperationInsert})
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]models.Document, 0, len(m.order[collection]))
	for _, id := range m.order[collection] {
		docs = append(docs, *cloneDoc(m.docs[collection][id]))
	}
	return docs, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	doc, ok := m.docs[collection][id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	oldStatus, _ := doc.Data["status"].(string)
	for k, v := range copyMap(patch) {
		doc.Data[k] = v
	}
	doc.UpdatedAt = m.now()
	newStatus, _ := doc.Data["status"].(string)
	m.mu.Unlock()

	if collection == models.CollectionPayments && oldStatus != newStatus {
		m.publish(models.ChangeEvent{Collection: collection, DocumentID: id, Operation: models.OperationUpdate})
	}
	return nil
}

func (m *Memory) Increment(ctx context.Context, collection, id, field string, delta int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return 0, ErrNotFound
	}
	current := 0
	switch v := doc.Data[field].(type) {
	case float64:
		current = int(v)
	case int:
		current = v
	}
	current += delta
	doc.Data[field] = float64(current)
	doc.UpdatedAt = m.now()
	return current, nil
}

func (m *Memory) ListWithField(ctx context.Context, field string) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []models.Document
	for collection, ids := range m.order {
		for _, id := range ids {
			doc := m.docs[collection][id]
			if _, ok := doc.Data[field]; ok {
				docs = append(docs, *cloneDoc(doc))
			}
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

func (m *Memory) ListByStatus(ctx context.Context, collection, status string, before time.Time) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []models.Document
	for _, id := range m.order[collection] {
		doc := m.docs[collection][id]
		if s, _ := doc.Data["status"].(string); s == status && doc.CreatedAt.Before(before) {
			docs = append(docs, *cloneDoc(doc))
		}
	}
	return docs, nil
}

// Subscribe returns a channel of change events that is closed when ctx ends.
func (m *Memory) Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error) {
	ch := make(chan models.ChangeEvent, m.buffer)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}

func (m *Memory) publish(ev models.ChangeEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		select {
		case sub <- ev:
		default:
			// Slow subscribers lose events, like a dropped LISTEN connection.
			m.log.WithFields(logrus.Fields{
				"collection": ev.Collection,
				"id":         ev.DocumentID,
				"op":         ev.Operation,
			}).Warn("Change event dropped, subscriber buffer full")
		}
	}
}

func cloneDoc(doc *models.Document) *models.Document {
	out := *doc
	out.Data = copyMap(doc.Data)
	return &out
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
