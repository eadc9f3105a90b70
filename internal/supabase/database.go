package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

// DatabaseClient stores every collection in the documents table.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

var _ docstore.Store = (*DatabaseClient)(nil)

func (d *DatabaseClient) Create(ctx context.Context, collection string, data map[string]interface{}) (*models.Document, error) {
	id, _ := data["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}

	fields := make(map[string]interface{}, len(data))
	for k, v := range data {
		if k != "id" {
			fields[k] = v
		}
	}
	dataJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	doc := &models.Document{Collection: collection, ID: id, Data: fields}
	err = d.db.QueryRowContext(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, collection, id, dataJSON).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return doc, nil
}

func (d *DatabaseClient) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	doc := &models.Document{Collection: collection, ID: id}
	var raw []byte
	err := d.db.QueryRowContext(ctx, `
		SELECT data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (d *DatabaseClient) List(ctx context.Context, collection string) ([]models.Document, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return scanDocuments(rows)
}

func (d *DatabaseClient) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	result, err := d.db.ExecContext(ctx, `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, patchJSON)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (d *DatabaseClient) Increment(ctx context.Context, collection, id, field string, delta int) (int, error) {
	var value int
	err := d.db.QueryRowContext(ctx, `
		UPDATE documents
		SET data = jsonb_set(
			data,
			ARRAY[$3::text],
			to_jsonb(COALESCE((data ->> $3::text)::numeric, 0) + $4)
		),
		updated_at = NOW()
		WHERE collection = $1 AND id = $2
		RETURNING (data ->> $3::text)::numeric::int
	`, collection, id, field, delta).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, docstore.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", field, err)
	}
	return value, nil
}

func (d *DatabaseClient) ListWithField(ctx context.Context, field string) ([]models.Document, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE data ? $1
		ORDER BY created_at
	`, field)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents with %s: %w", field, err)
	}
	return scanDocuments(rows)
}

func (d *DatabaseClient) ListByStatus(ctx context.Context, collection, status string, before time.Time) ([]models.Document, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND data ->> 'status' = $2 AND created_at < $3
		ORDER BY created_at
	`, collection, status, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", status, err)
	}
	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]models.Document, error) {
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		var raw []byte
		if err := rows.Scan(&doc.Collection, &doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to decode document %s/%s: %w", doc.Collection, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}
