package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/models"
	"watch-storefront-backend/internal/services"
)

type UploadHandler struct {
	svc *services.UploadService
	log *logrus.Entry
}

func NewUploadHandler(svc *services.UploadService, log *logrus.Entry) *UploadHandler {
	return &UploadHandler{svc: svc, log: log}
}

// Upload godoc
// @Summary     Upload a submission photo
// @Description Stores one photo and returns its public URL for use as photoUrl in a trade or sell request
// @Tags        uploads
// @Accept      multipart/form-data
// @Produce     json
// @Param       photo  formData file   true  "JPEG, PNG, HEIC or WebP image"
// @Param       folder formData string false "Storage folder, e.g. trade or sell"
// @Success     201 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     415 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "photo is required", Message: err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read photo", Message: err.Error()})
		return
	}
	defer file.Close()

	folder := c.DefaultPostForm("folder", "submissions")
	res, err := h.svc.UploadPhoto(c.Request.Context(), folder, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedPhoto):
			c.JSON(http.StatusUnsupportedMediaType, models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrPhotoTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrUploadsDisabled):
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error()})
		default:
			h.log.WithError(err).Error("Photo upload failed")
			c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "upload failed", Message: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, res)
}
