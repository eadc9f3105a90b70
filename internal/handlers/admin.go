package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
	"watch-storefront-backend/internal/notify"
)

type AdminHandler struct {
	store  docstore.Store
	router *notify.Router
	log    *logrus.Entry
}

func NewAdminHandler(store docstore.Store, router *notify.Router, log *logrus.Entry) *AdminHandler {
	return &AdminHandler{store: store, router: router, log: log}
}

// FailedNotifications godoc
// @Summary     List documents whose notification email failed
// @Description Documents carrying emailError that were never marked emailSent
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.FailedNotificationsResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /admin/notifications/failed [get]
func (h *AdminHandler) FailedNotifications(c *gin.Context) {
	docs, err := h.store.ListWithField(c.Request.Context(), models.FieldEmailError)
	if err != nil {
		h.log.WithError(err).Error("Failed to list failed notifications")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list documents"})
		return
	}

	out := make([]models.FailedNotification, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if doc.Bool(models.FieldEmailSent) {
			continue
		}
		out = append(out, models.FailedNotification{
			Collection: doc.Collection,
			ID:         doc.ID,
			EmailError: doc.String(models.FieldEmailError),
			CreatedAt:  doc.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, models.FailedNotificationsResponse{Documents: out})
}

// Replay godoc
// @Summary     Re-run the notification pipeline for one document
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       collection path string true "Collection"
// @Param       id         path string true "Document ID"
// @Success     200 {object} models.ReplayResponse
// @Failure     502 {object} models.ReplayResponse
// @Router      /admin/notifications/{collection}/{id}/replay [post]
func (h *AdminHandler) Replay(c *gin.Context) {
	res := h.router.Route(c.Request.Context(), models.ChangeEvent{
		Collection: c.Param("collection"),
		DocumentID: c.Param("id"),
		Operation:  models.OperationInsert,
	})

	body := models.ReplayResponse{
		Collection: res.Collection,
		ID:         res.DocumentID,
		Outcome:    string(res.Outcome),
		Reason:     res.Reason,
	}
	if res.Err != nil {
		body.Error = res.Err.Error()
	}

	status := http.StatusOK
	if res.Outcome == notify.OutcomeFailed {
		status = http.StatusBadGateway
	}
	c.JSON(status, body)
}
