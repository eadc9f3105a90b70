package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

type DeepLinkHandler struct {
	store    docstore.Store
	scheme   string
	storeURL string
	playURL  string
}

func NewDeepLinkHandler(store docstore.Store, scheme, storeURL, playURL string) *DeepLinkHandler {
	return &DeepLinkHandler{store: store, scheme: scheme, storeURL: storeURL, playURL: playURL}
}

// Open godoc
// @Summary     Open a watch in the app
// @Description Redirects phones to <scheme>://watch/<id>. Desktops, and phones retrying with fallback=1
// @Description because the app is not installed, go to the store listing.
// @Tags        links
// @Param       id       path  string true  "Watch ID"
// @Param       fallback query bool   false "Skip the app link"
// @Success     302
// @Failure     404 {object} models.ErrorResponse
// @Router      /watch/{id} [get]
func (h *DeepLinkHandler) Open(c *gin.Context) {
	id := c.Param("id")
	_, err := h.store.Get(c.Request.Context(), models.CollectionWatches, id)
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "watch not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load watch"})
		return
	}

	ua := strings.ToLower(c.GetHeader("User-Agent"))
	android := strings.Contains(ua, "android")
	mobile := android || strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad")

	switch {
	case mobile && c.Query("fallback") == "":
		c.Redirect(http.StatusFound, fmt.Sprintf("%s://watch/%s", h.scheme, url.PathEscape(id)))
	case android && h.playURL != "":
		c.Redirect(http.StatusFound, h.playURL)
	default:
		c.Redirect(http.StatusFound, h.storeURL)
	}
}
