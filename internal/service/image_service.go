// Package service contains the application's business logic layer.
package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gloryharbor/internal/config"
	"gloryharbor/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "uploads"
	DefaultMaxUploadSizeMB = 5

	ThumbnailMaxSize = 1280
	AvatarSize       = 512
	JPEGQuality      = 82
	WebPQuality      = 80
)

// UploadImageInput carries a raw uploaded file into the image service.
type UploadImageInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ImageService validates uploaded images and writes processed files to the
// local upload directory, which the server exposes under /uploads.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

// NewImageService builds an ImageService from configuration.
func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultUploadDir
	maxUploadSizeMB := DefaultMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MaxUploadSizeMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir returns the directory processed files are written to.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

// SaveSermonThumbnail validates, downscales and stores a sermon thumbnail.
// Returns the public URL path ("/uploads/sermon-...jpg").
func (s *ImageService) SaveSermonThumbnail(in UploadImageInput) (string, error) {
	decoded, err := s.decodeUpload(in)
	if err != nil {
		return "", err
	}

	resized := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)
	encoded, err := encodeJPEG(resized, JPEGQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	name := storedFileName("sermon", ".jpg")
	if err := writeBytesToFile(filepath.Join(s.uploadDir, name), encoded); err != nil {
		return "", models.NewInternalError(err)
	}
	return "/uploads/" + name, nil
}

// SaveAvatar validates an uploaded profile photo, crops it to a centered
// square and stores it as WebP. Returns the public URL path.
func (s *ImageService) SaveAvatar(in UploadImageInput) (string, error) {
	decoded, err := s.decodeUpload(in)
	if err != nil {
		return "", err
	}

	square := cropCenterSquare(decoded)
	resized := resizeToFit(square, AvatarSize, AvatarSize)
	encoded, err := encodeWebP(resized, WebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	name := storedFileName("avatar", ".webp")
	if err := writeBytesToFile(filepath.Join(s.uploadDir, name), encoded); err != nil {
		return "", models.NewInternalError(err)
	}
	return "/uploads/" + name, nil
}

// RemoveLocal deletes a previously stored upload given its public URL path.
// Paths outside /uploads (external thumbnail URLs) are ignored.
func (s *ImageService) RemoveLocal(urlPath string) {
	name, ok := localUploadName(urlPath)
	if !ok {
		return
	}
	_ = os.Remove(filepath.Join(s.uploadDir, name))
}

// IsLocal reports whether the URL points at a file in the upload directory.
func (s *ImageService) IsLocal(urlPath string) bool {
	_, ok := localUploadName(urlPath)
	return ok
}

// decodeUpload runs the shared size, MIME and decode checks.
func (s *ImageService) decodeUpload(in UploadImageInput) (image.Image, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Only image files are allowed")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	return decoded, nil
}

// storedFileName builds a collision-resistant name like
// "sermon-1721390123456789-3f2a8c1d.jpg".
func storedFileName(prefix, ext string) string {
	return fmt.Sprintf("%s-%d-%s%s", prefix, time.Now().UnixNano(), uuid.New().String()[:8], ext)
}

// localUploadName extracts the bare file name from an /uploads URL path.
// Rejects anything with path traversal left in it.
func localUploadName(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, "/uploads/") {
		return "", false
	}
	name := strings.TrimPrefix(urlPath, "/uploads/")
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	return name, true
}

func cropCenterSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}

	side := w
	if h < side {
		side = h
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, xdraw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
