package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/models"
	"watch-storefront-backend/internal/services"
)

type SubmissionHandler struct {
	svc *services.SubmissionService
	log *logrus.Entry
}

func NewSubmissionHandler(svc *services.SubmissionService, log *logrus.Entry) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, log: log}
}

// CreateTradeRequest godoc
// @Summary     Submit a trade-in request
// @Tags        submissions
// @Accept      json
// @Produce     json
// @Param       request body models.SubmissionRequest true "Trade-in details"
// @Success     201 {object} models.SubmissionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /trade-requests [post]
func (h *SubmissionHandler) CreateTradeRequest(c *gin.Context) {
	h.createRequest(c, models.CollectionTradeRequests)
}

// CreateSellRequest godoc
// @Summary     Submit a sell request
// @Tags        submissions
// @Accept      json
// @Produce     json
// @Param       request body models.SubmissionRequest true "Watch being offered"
// @Success     201 {object} models.SubmissionResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /sell-requests [post]
func (h *SubmissionHandler) CreateSellRequest(c *gin.Context) {
	h.createRequest(c, models.CollectionSellRequests)
}

// CreateRequest godoc
// @Summary     Ask about a watch
// @Tags        submissions
// @Accept      json
// @Produce     json
// @Param       request body models.SubmissionRequest true "Inquiry"
// @Success     201 {object} models.SubmissionResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /requests [post]
func (h *SubmissionHandler) CreateRequest(c *gin.Context) {
	h.createRequest(c, models.CollectionRequests)
}

func (h *SubmissionHandler) createRequest(c *gin.Context, collection string) {
	var req models.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	doc, err := h.svc.SubmitRequest(c.Request.Context(), collection, req)
	if err != nil {
		h.fail(c, collection, err)
		return
	}
	c.JSON(http.StatusCreated, models.SubmissionResponse{ID: doc.ID, Collection: collection})
}

// CreateMessage godoc
// @Summary     Send a contact message
// @Tags        submissions
// @Accept      json
// @Produce     json
// @Param       request body models.MessageRequest true "Message"
// @Success     201 {object} models.SubmissionResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /messages [post]
func (h *SubmissionHandler) CreateMessage(c *gin.Context) {
	var req models.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	doc, err := h.svc.SubmitMessage(c.Request.Context(), req)
	if err != nil {
		h.fail(c, models.CollectionMessages, err)
		return
	}
	c.JSON(http.StatusCreated, models.SubmissionResponse{ID: doc.ID, Collection: models.CollectionMessages})
}

// CreateShippingInfo godoc
// @Summary     Save shipping information
// @Tags        submissions
// @Accept      json
// @Produce     json
// @Param       request body models.ShippingInfoRequest true "Shipping address"
// @Success     201 {object} models.SubmissionResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /shipping-info [post]
func (h *SubmissionHandler) CreateShippingInfo(c *gin.Context) {
	var req models.ShippingInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	doc, err := h.svc.SubmitShipping(c.Request.Context(), req)
	if err != nil {
		h.fail(c, models.CollectionShippingInfo, err)
		return
	}
	c.JSON(http.StatusCreated, models.SubmissionResponse{ID: doc.ID, Collection: models.CollectionShippingInfo})
}

func (h *SubmissionHandler) fail(c *gin.Context, collection string, err error) {
	if errors.Is(err, services.ErrInvalidSubmission) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	h.log.WithError(err).WithField("collection", collection).Error("Failed to save submission")
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "failed to save submission",
		Message: err.Error(),
	})
}
