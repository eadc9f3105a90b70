package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/catalog"
	"watch-storefront-backend/internal/models"
)

func ids(items []models.Watch) []string {
	out := make([]string, len(items))
	for i, w := range items {
		out[i] = w.ID
	}
	return out
}

func sampleWatches() []models.Watch {
	return []models.Watch{
		{ID: "a", Brand: "Rolex", Model: "Daytona", Price: 30000, Likes: 5, Year: "2019", SKU: "RX-1"},
		{ID: "b", Brand: "Omega", Model: "Speedmaster", Price: 6000, Likes: 12, ReferenceNumber: "310.30.42"},
		{ID: "c", Brand: "Tudor", Model: "Black Bay", Price: 4000, Likes: 0},
		{ID: "d", Brand: "Cartier", Model: "Santos", Price: 6000, Likes: 5},
	}
}

func TestParseSortMode(t *testing.T) {
	mode, err := catalog.ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortRandom, mode)

	mode, err = catalog.ParseSortMode("price-desc")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortPriceDesc, mode)

	_, err = catalog.ParseSortMode("alphabetical")
	assert.ErrorIs(t, err, catalog.ErrInvalidSortMode)
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	items := sampleWatches()

	assert.Equal(t, []string{"a"}, ids(catalog.Filter(items, "rol")))
	assert.Equal(t, []string{"a"}, ids(catalog.Filter(items, "DAYT")))
	assert.Equal(t, []string{"a"}, ids(catalog.Filter(items, "2019")))
	assert.Equal(t, []string{"a"}, ids(catalog.Filter(items, "rx-1")))
	assert.Equal(t, []string{"b"}, ids(catalog.Filter(items, "310.30")))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(catalog.Filter(items, "")))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(catalog.Filter(items, "   ")))
	assert.Empty(t, catalog.Filter(items, "patek"))
}

func TestSort_PriceAscendingAndDescending(t *testing.T) {
	items := []models.Watch{{ID: "1", Price: 500}, {ID: "2", Price: 1500}}
	state := catalog.NewSortState(nil)

	state.Select(catalog.SortPriceAsc)
	assert.Equal(t, []string{"1", "2"}, ids(catalog.Sort(items, state)))

	state.Select(catalog.SortPriceDesc)
	assert.Equal(t, []string{"2", "1"}, ids(catalog.Sort(items, state)))
}

func TestSort_PriceAscendingOrdersEveryPair(t *testing.T) {
	state := catalog.NewSortState(nil)
	state.Select(catalog.SortPriceAsc)

	sorted := catalog.Sort(sampleWatches(), state)
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Price, sorted[i].Price)
	}
	assert.Equal(t, []string{"c", "b", "d", "a"}, ids(sorted), "ties keep fetch order")
}

func TestSort_Likes(t *testing.T) {
	state := catalog.NewSortState(nil)

	state.Select(catalog.SortMostLiked)
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids(catalog.Sort(sampleWatches(), state)))

	state.Select(catalog.SortLeastLiked)
	assert.Equal(t, []string{"c", "a", "d", "b"}, ids(catalog.Sort(sampleWatches(), state)))
}

func TestSort_NonePreservesOrder(t *testing.T) {
	state := catalog.NewSortState(nil)
	state.Select(catalog.SortNone)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(catalog.Sort(sampleWatches(), state)))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	items := sampleWatches()
	state := catalog.NewSortState(nil)
	state.Select(catalog.SortPriceAsc)

	catalog.Sort(items, state)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(items))
}

func TestSort_RandomIsStableAcrossCalls(t *testing.T) {
	state := catalog.NewSortState(catalog.NewRandomKeys())
	state.Mount()
	require.Equal(t, catalog.SortRandom, state.Mode())

	first := ids(catalog.Sort(sampleWatches(), state))
	second := ids(catalog.Sort(sampleWatches(), state))
	assert.Equal(t, first, second)
	assert.Equal(t, 4, state.Keys().Len())
}

func TestSort_RandomUsesCachedKeys(t *testing.T) {
	values := []float64{0.9, 0.1, 0.5, 0.3, 0.05}
	next := 0
	keys := catalog.NewRandomKeysWithSource(func() float64 {
		v := values[next]
		next++
		return v
	})
	state := catalog.NewSortState(keys)
	state.Mount()

	items := sampleWatches()
	// Keys are assigned as the sort first compares items, so pre-seed them in order.
	for _, w := range items {
		keys.Key(w.ID)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(catalog.Sort(items, state)))

	items = append(items, models.Watch{ID: "e"})
	assert.Equal(t, []string{"e", "b", "d", "c", "a"}, ids(catalog.Sort(items, state)), "new item gets a fresh key, old keys kept")
}

func TestMountResetsToRandom(t *testing.T) {
	state := catalog.NewSortState(nil)
	state.Select(catalog.SortPriceDesc)
	state.Mount()
	assert.Equal(t, catalog.SortRandom, state.Mode())
}

func TestApply(t *testing.T) {
	state := catalog.NewSortState(nil)
	state.Select(catalog.SortPriceDesc)

	assert.Equal(t, []string{"a", "b", "d", "c"}, ids(catalog.Apply(sampleWatches(), "o", state)))
	assert.Equal(t, []string{"b", "d"}, ids(catalog.Apply(sampleWatches(), "s", state)))
}

func TestPaginate(t *testing.T) {
	items := sampleWatches()

	page := catalog.Paginate(items, 1, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(page.Items))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page = catalog.Paginate(items, 2, 3)
	assert.Equal(t, []string{"d"}, ids(page.Items))

	page = catalog.Paginate(items, 5, 3)
	assert.Empty(t, page.Items)

	page = catalog.Paginate(items, 0, 0)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, catalog.DefaultPageSize, page.PageSize)

	page = catalog.Paginate(items, 1, 1000)
	assert.Equal(t, catalog.MaxPageSize, page.PageSize)
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	page := catalog.Paginate(sampleWatches(), 184467440737095517, 100)
	assert.Empty(t, page.Items)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	page = catalog.Paginate(nil, int(^uint(0)>>1), catalog.MaxPageSize)
	assert.Empty(t, page.Items)
}

func TestFavorites(t *testing.T) {
	fav := catalog.NewFavorites("c")

	assert.True(t, fav.Toggle("a"))
	assert.True(t, fav.Has("a"))
	assert.Equal(t, []string{"a", "c"}, fav.IDs())
	assert.Equal(t, []string{"a", "c"}, ids(fav.Filter(sampleWatches())))

	assert.False(t, fav.Toggle("a"))
	assert.False(t, fav.Has("a"))
}
