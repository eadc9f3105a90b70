package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/catalog"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

type WatchHandler struct {
	source   catalog.Source
	store    docstore.Store
	keys     *catalog.RandomKeys
	pageSize int
	log      *logrus.Entry
	now      func() time.Time
}

// NewWatchHandler serves the catalog. Random sort keys live as long as the handler.
func NewWatchHandler(source catalog.Source, store docstore.Store, pageSize int, log *logrus.Entry) *WatchHandler {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &WatchHandler{
		source:   source,
		store:    store,
		keys:     catalog.NewRandomKeys(),
		pageSize: pageSize,
		log:      log,
		now:      time.Now,
	}
}

// List godoc
// @Summary     List watches
// @Description Fetches the whole catalog, then filters by q, sorts and paginates in memory
// @Tags        watches
// @Produce     json
// @Param       q         query string false "Case-insensitive match on brand, model, year, sku or reference number"
// @Param       sort      query string false "price-asc, price-desc, most-liked, least-liked, random (default) or none"
// @Param       favorites query string false "Comma-separated watch ids to keep"
// @Param       page      query int    false "1-based page"
// @Param       page_size query int    false "Items per page (max 100)"
// @Success     200 {object} models.WatchListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /watches [get]
func (h *WatchHandler) List(c *gin.Context) {
	mode, err := catalog.ParseSortMode(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid sort", Message: err.Error()})
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid page", Message: err.Error()})
		return
	}
	pageSize, err := queryInt(c, "page_size", h.pageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid page_size", Message: err.Error()})
		return
	}

	state := catalog.NewFetcher(h.source).WithClock(h.now).Load(c.Request.Context())
	if state.Error != "" {
		h.log.WithField("error", state.Error).Error("Catalog fetch failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "catalog unavailable", Message: state.Error})
		return
	}

	sortState := catalog.NewSortState(h.keys)
	sortState.Mount()
	sortState.Select(mode)

	items := state.Items
	if fav := strings.TrimSpace(c.Query("favorites")); fav != "" {
		items = catalog.NewFavorites(strings.Split(fav, ",")...).Filter(items)
	}

	query := c.Query("q")
	result := catalog.Paginate(catalog.Apply(items, query, sortState), page, pageSize)

	c.JSON(http.StatusOK, models.WatchListResponse{
		Items:      result.Items,
		Query:      query,
		Sort:       string(sortState.Mode()),
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Get godoc
// @Summary     Get a watch
// @Tags        watches
// @Produce     json
// @Param       id path string true "Watch ID"
// @Success     200 {object} models.Watch
// @Failure     404 {object} models.ErrorResponse
// @Router      /watches/{id} [get]
func (h *WatchHandler) Get(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.store.Get(c.Request.Context(), models.CollectionWatches, id)
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "watch not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("watch_id", id).Error("Failed to load watch")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load watch"})
		return
	}

	c.JSON(http.StatusOK, catalog.Normalize(catalog.RawRecord{ID: doc.ID, Data: doc.Data}, h.now()))
}

// Like godoc
// @Summary     Like a watch
// @Description Increments the watch's like count
// @Tags        watches
// @Produce     json
// @Param       id path string true "Watch ID"
// @Success     200 {object} models.LikeResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /watches/{id}/like [post]
func (h *WatchHandler) Like(c *gin.Context) {
	id := c.Param("id")
	likes, err := h.store.Increment(c.Request.Context(), models.CollectionWatches, id, "likes", 1)
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "watch not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("watch_id", id).Error("Failed to like watch")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to like watch"})
		return
	}

	c.JSON(http.StatusOK, models.LikeResponse{ID: id, Likes: likes})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return n, nil
}
