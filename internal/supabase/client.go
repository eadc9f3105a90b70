package supabase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/supabase-community/supabase-go"
	"watch-storefront-backend/internal/catalog"
	"watch-storefront-backend/internal/models"
)

type Client struct {
	Supabase *supabase.Client
}

func NewClient(url, publishableKey string) (*Client, error) {
	client, err := supabase.NewClient(url, publishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{Supabase: client}, nil
}

type catalogRow struct {
	ID        string                 `json:"id"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
}

// CatalogSource reads the watch collection through PostgREST with the publishable key.
type CatalogSource struct {
	client *Client
}

func NewCatalogSource(client *Client) *CatalogSource {
	return &CatalogSource{client: client}
}

var _ catalog.Source = (*CatalogSource)(nil)

func (s *CatalogSource) FetchAll(ctx context.Context) ([]catalog.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []catalogRow
	_, err := s.client.Supabase.From("documents").
		Select("id,data,created_at", "", false).
		Eq("collection", models.CollectionWatches).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })

	records := make([]catalog.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = catalog.RawRecord{ID: row.ID, Data: row.Data}
	}
	return records, nil
}
