package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"watch-storefront-backend/internal/models"
)

const DefaultMaxPhotoBytes = 10 << 20

var (
	ErrUploadsDisabled  = errors.New("photo uploads are not configured")
	ErrUnsupportedPhoto = errors.New("photo must be a JPEG, PNG, HEIC or WebP image")
	ErrPhotoTooLarge    = errors.New("photo exceeds the size limit")
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/heic": ".heic",
	"image/webp": ".webp",
}

// PhotoStore persists uploaded bytes and returns their public URL.
type PhotoStore interface {
	Upload(path, contentType string, data []byte) (string, error)
}

type UploadService struct {
	store    PhotoStore
	maxBytes int64
	now      func() time.Time
}

func NewUploadService(store PhotoStore, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	return &UploadService{store: store, maxBytes: maxBytes, now: time.Now}
}

// UploadPhoto reads r fully, then stores it under folder/YYYY/MM/<uuid><ext>.
// Nothing is cleaned up if the caller later fails to use the URL.
func (s *UploadService) UploadPhoto(ctx context.Context, folder, contentType string, r io.Reader) (*models.UploadResponse, error) {
	if s == nil || s.store == nil {
		return nil, ErrUploadsDisabled
	}

	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedPhoto
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrPhotoTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		folder = "misc"
	}
	now := s.now().UTC()
	objectPath := fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), int(now.Month()), uuid.New().String(), ext)

	url, err := s.store.Upload(objectPath, contentType, data)
	if err != nil {
		return nil, err
	}
	return &models.UploadResponse{Path: objectPath, URL: url}, nil
}
