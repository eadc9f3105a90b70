package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/models"
	"watch-storefront-backend/internal/payments"
)

const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	svc           *payments.Service
	webhookSecret string
	allowUnsigned bool
	log           *logrus.Entry
}

func NewPaymentHandler(svc *payments.Service, webhookSecret string, allowUnsigned bool, log *logrus.Entry) *PaymentHandler {
	return &PaymentHandler{
		svc:           svc,
		webhookSecret: webhookSecret,
		allowUnsigned: allowUnsigned,
		log:           log,
	}
}

// CreateIntent godoc
// @Summary     Create a payment intent
// @Description Returns the client secret the mobile payment sheet needs. Amount is in minor units.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Param       request body models.PaymentIntentRequest true "Intent request"
// @Success     200 {object} models.PaymentIntentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /payments/intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "payments not configured"})
		return
	}

	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	intent, err := h.svc.CreateIntent(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, payments.ErrNoGateway) {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "payments not configured"})
			return
		}
		if errors.Is(err, payments.ErrInvalidAmount) || errors.Is(err, payments.ErrMissingWatch) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
			return
		}
		h.log.WithError(err).WithField("watch_id", req.WatchID).Error("Payment intent creation failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to create payment intent", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.PaymentIntentResponse{ClientSecret: intent.ClientSecret})
}

// Webhook godoc
// @Summary     Payment provider webhook
// @Description Verifies the Stripe-Signature header and applies payment_intent.succeeded and payment_intent.payment_failed events
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Stripe-Signature header string false "Provider signature"
// @Success     200 {object} map[string]bool "received"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Router      /webhooks/payments [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read request body",
			Message: err.Error(),
		})
		return
	}
	if len(body) > maxWebhookBytes {
		h.log.WithField("limit", maxWebhookBytes).Warn("Rejected oversized webhook")
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "webhook body too large"})
		return
	}

	if err := payments.VerifyWebhook(body, c.GetHeader("Stripe-Signature"), h.webhookSecret, h.allowUnsigned); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, payments.ErrUnsignedRejected) {
			status = http.StatusUnauthorized
		}
		h.log.WithError(err).Warn("Rejected webhook")
		c.JSON(status, models.ErrorResponse{Error: "webhook verification failed", Message: err.Error()})
		return
	}

	event, err := payments.ParseEvent(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse event",
			Message: err.Error(),
		})
		return
	}

	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "payments not configured"})
		return
	}

	if _, err := h.svc.HandleEvent(c.Request.Context(), event); err != nil {
		// A non-2xx makes the provider retry.
		h.log.WithError(err).WithField("event_id", event.ID).Error("Failed to apply webhook event")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to apply event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
