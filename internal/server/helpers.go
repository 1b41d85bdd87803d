package server

import (
	"io"
	"mime/multipart"
	"strings"
	"unicode"

	"gloryharbor/internal/middleware"
	"gloryharbor/internal/models"
	"gloryharbor/internal/observability"
	"gloryharbor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint. On failure
// it writes a 400 JSON response and reports ok=false; the handler just
// returns nil so the committed response stands.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, false
	}
	return uint(id), true
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID reads the authenticated user set by the auth middleware.
// Returns 0 when the request is anonymous (OptionalAuth routes).
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// respondError maps a service error to its HTTP status and writes it. Server
// faults are logged with their cause; the response body stays generic.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusForError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"status", status,
			"path", c.Path(),
			"error", err,
		)
		observability.RecordErrorInContext(c.UserContext(), err)
	}
	return models.RespondWithError(c, status, err)
}

// readImageUpload extracts the multipart "image" field as an upload input.
// Returns (nil, nil) when the field is absent.
func readImageUpload(c *fiber.Ctx) (*service.UploadImageInput, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	return uploadFromHeader(fileHeader)
}

func uploadFromHeader(fileHeader *multipart.FileHeader) (*service.UploadImageInput, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewValidationError("Could not read uploaded file")
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, content); err != nil {
		return nil, models.NewValidationError("Could not read uploaded file")
	}

	return &service.UploadImageInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
