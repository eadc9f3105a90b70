package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/services"
)

type memoryPhotos struct {
	paths []string
	err   error
}

func (m *memoryPhotos) Upload(path, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.paths = append(m.paths, path)
	return "https://cdn.example.com/" + path, nil
}

func TestUploadPhoto(t *testing.T) {
	photos := &memoryPhotos{}
	svc := services.NewUploadService(photos, 1024)

	res, err := svc.UploadPhoto(context.Background(), "trade", "image/jpeg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Path, "trade/"))
	assert.True(t, strings.HasSuffix(res.Path, ".jpg"))
	assert.Equal(t, "https://cdn.example.com/"+res.Path, res.URL)
	assert.Equal(t, []string{res.Path}, photos.paths)
}

func TestUploadPhoto_FolderIsSanitized(t *testing.T) {
	photos := &memoryPhotos{}
	svc := services.NewUploadService(photos, 1024)

	res, err := svc.UploadPhoto(context.Background(), "../../etc", "image/png; charset=binary", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Path, "etc/"), res.Path)
}

func TestUploadPhoto_Rejections(t *testing.T) {
	svc := services.NewUploadService(&memoryPhotos{}, 4)

	_, err := svc.UploadPhoto(context.Background(), "sell", "application/pdf", strings.NewReader("pdf"))
	assert.ErrorIs(t, err, services.ErrUnsupportedPhoto)

	_, err = svc.UploadPhoto(context.Background(), "sell", "image/jpeg", strings.NewReader("too large"))
	assert.ErrorIs(t, err, services.ErrPhotoTooLarge)

	var disabled *services.UploadService
	_, err = disabled.UploadPhoto(context.Background(), "sell", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, services.ErrUploadsDisabled)
}

func TestUploadPhoto_StoreError(t *testing.T) {
	svc := services.NewUploadService(&memoryPhotos{err: errors.New("bucket missing")}, 0)

	_, err := svc.UploadPhoto(context.Background(), "sell", "image/webp", strings.NewReader("x"))
	assert.EqualError(t, err, "bucket missing")
}
