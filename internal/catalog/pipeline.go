package catalog

import (
	"sort"
	"strings"

	"watch-storefront-backend/internal/models"
)

// Filter keeps items whose brand, model, year, sku or reference number
// contains query, ignoring case. An empty query keeps everything.
func Filter(items []models.Watch, query string) []models.Watch {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Watch, 0, len(items))
	for _, w := range items {
		if q == "" || matches(w, q) {
			out = append(out, w)
		}
	}
	return out
}

func matches(w models.Watch, q string) bool {
	for _, field := range []string{w.Brand, w.Model, w.Year, w.SKU, w.ReferenceNumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of items for the state's mode.
func Sort(items []models.Watch, state *SortState) []models.Watch {
	out := make([]models.Watch, len(items))
	copy(out, items)

	var less func(a, b models.Watch) bool
	switch state.Mode() {
	case SortPriceAsc:
		less = func(a, b models.Watch) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b models.Watch) bool { return a.Price > b.Price }
	case SortMostLiked:
		less = func(a, b models.Watch) bool { return a.Likes > b.Likes }
	case SortLeastLiked:
		less = func(a, b models.Watch) bool { return a.Likes < b.Likes }
	case SortRandom:
		keys := state.Keys()
		less = func(a, b models.Watch) bool { return keys.Key(a.ID) < keys.Key(b.ID) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Apply derives the displayed list from the fetched items, the query and the sort state.
func Apply(items []models.Watch, query string, state *SortState) []models.Watch {
	return Sort(Filter(items, query), state)
}
