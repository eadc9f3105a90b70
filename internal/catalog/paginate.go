package catalog

import "watch-storefront-backend/internal/models"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Items      []models.Watch
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Paginate slices items into 1-based pages. Out-of-range pages are empty.
func Paginate(items []models.Watch, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	// Past the last page the product could overflow; such pages are simply empty.
	start := total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      append([]models.Watch{}, items[start:end]...),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
