// Package docstore defines the document persistence contract shared by the
// catalog, the HTTP handlers and the notification pipeline.
package docstore

import (
	"context"
	"errors"
	"time"

	"watch-storefront-backend/internal/models"
)

var ErrNotFound = errors.New("document not found")

type Store interface {
	// Create stores data under a new id; an "id" string in data is used when present.
	Create(ctx context.Context, collection string, data map[string]interface{}) (*models.Document, error)
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	// List returns every document in the collection in creation order.
	List(ctx context.Context, collection string) ([]models.Document, error)
	// Update merges patch into the stored fields.
	Update(ctx context.Context, collection, id string, patch map[string]interface{}) error
	// Increment adds delta to a numeric field and returns the new value.
	Increment(ctx context.Context, collection, id, field string, delta int) (int, error)
	// ListWithField returns documents of any collection that carry field.
	ListWithField(ctx context.Context, field string) ([]models.Document, error)
	// ListByStatus returns documents whose status equals status and that were created before cutoff.
	ListByStatus(ctx context.Context, collection, status string, before time.Time) ([]models.Document, error)
}
