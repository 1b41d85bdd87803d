package service

import (
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gloryharbor/internal/config"
	"gloryharbor/internal/models"
)

func TestSaveSermonThumbnail(t *testing.T) {
	images := testImageService(t)

	url, err := images.SaveSermonThumbnail(pngUpload(t, 1920, 1080))
	require.NoError(t, err)

	assert.Contains(t, url, "/uploads/sermon-")
	assert.Contains(t, url, ".jpg")
	assert.FileExists(t, filepath.Join(images.UploadDir(), path.Base(url)))
}

func TestSaveAvatarProducesWebP(t *testing.T) {
	images := testImageService(t)

	url, err := images.SaveAvatar(pngUpload(t, 900, 500))
	require.NoError(t, err)

	assert.Contains(t, url, "/uploads/avatar-")
	assert.Contains(t, url, ".webp")
	assert.FileExists(t, filepath.Join(images.UploadDir(), path.Base(url)))
}

func TestDecodeUploadRejections(t *testing.T) {
	images := testImageService(t)

	t.Run("empty upload", func(t *testing.T) {
		_, err := images.SaveSermonThumbnail(UploadImageInput{Filename: "a.png", ContentType: "image/png"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := images.SaveSermonThumbnail(UploadImageInput{
			Filename:    "a.png",
			ContentType: "image/png",
			Content:     []byte("definitely not pixels"),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	})

	t.Run("declared type disagrees with content", func(t *testing.T) {
		upload := pngUpload(t, 10, 10)
		upload.ContentType = "image/jpeg"
		_, err := images.SaveSermonThumbnail(upload)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	})

	t.Run("over the size cap", func(t *testing.T) {
		small := NewImageService(&config.Config{UploadDir: t.TempDir(), MaxUploadSizeMB: 1})
		upload := pngUpload(t, 10, 10)
		upload.Content = append(upload.Content, make([]byte, 2*1024*1024)...)
		_, err := small.SaveSermonThumbnail(upload)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	})
}

func TestIsLocalAndRemoveLocal(t *testing.T) {
	images := testImageService(t)

	assert.True(t, images.IsLocal("/uploads/avatar-1.webp"))
	assert.False(t, images.IsLocal("https://cdn.example.com/avatar.webp"))
	assert.False(t, images.IsLocal(""))

	// Path traversal in a stored name must not escape the upload directory.
	assert.False(t, images.IsLocal("/uploads/../etc/passwd"))

	url, err := images.SaveAvatar(pngUpload(t, 64, 64))
	require.NoError(t, err)
	images.RemoveLocal(url)
	assert.NoFileExists(t, filepath.Join(images.UploadDir(), path.Base(url)))

	// Removing a remote URL is a no-op.
	images.RemoveLocal("https://cdn.example.com/avatar.webp")
}

// A 1x1 white GIF89a, written out byte for byte so the test does not register
// the GIF decoder itself. Decoding must work with only the imports the
// service package carries.
var tinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x21, 0xf9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

func TestSaveSermonThumbnailFromGIF(t *testing.T) {
	images := testImageService(t)

	url, err := images.SaveSermonThumbnail(UploadImageInput{
		Filename:    "still.gif",
		ContentType: "image/gif",
		Content:     tinyGIF,
	})
	require.NoError(t, err)

	assert.Contains(t, url, "/uploads/sermon-")
	assert.Contains(t, url, ".jpg")
	assert.FileExists(t, filepath.Join(images.UploadDir(), path.Base(url)))
}
