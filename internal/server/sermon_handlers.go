package server

import (
	"strings"
	"time"

	"gloryharbor/internal/models"
	"gloryharbor/internal/repository"
	"gloryharbor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SermonPayload carries sermon fields for create and update requests. It is
// accepted both as JSON and as multipart form fields alongside an optional
// "image" file.
type SermonPayload struct {
	Title           string `json:"title" form:"title"`
	Speaker         string `json:"speaker" form:"speaker"`
	Topic           string `json:"topic" form:"topic"`
	Series          string `json:"series" form:"series"`
	Description     string `json:"description" form:"description"`
	MediaType       string `json:"media_type" form:"media_type"`
	URL             string `json:"url" form:"url"`
	ThumbnailURL    string `json:"thumbnail_url" form:"thumbnail_url"`
	PublishedAt     string `json:"published_at" form:"published_at"`
	RemoveThumbnail bool   `json:"remove_thumbnail" form:"remove_thumbnail"`
}

// CommentPayload is the body for posting a sermon comment.
type CommentPayload struct {
	Text string `json:"text"`
}

// ListSermons returns a filtered, paged catalog listing.
// Query params: speaker, topic, series, q, type, limit, offset.
func (s *Server) ListSermons(c *fiber.Ctx) error {
	mediaType := c.Query("type")
	if mediaType != "" && !models.ValidMediaType(mediaType) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("type must be video or audio"))
	}

	page := parsePagination(c, 20)
	result, err := s.sermonService.ListSermons(c.Context(), service.ListSermonsInput{
		Filter: repository.SermonFilter{
			Speaker:   c.Query("speaker"),
			Topic:     c.Query("topic"),
			Series:    c.Query("series"),
			Query:     c.Query("q"),
			MediaType: mediaType,
		},
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetSermon returns a single sermon with engagement counts.
func (s *Server) GetSermon(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	sermon, err := s.sermonService.GetSermon(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sermon)
}

// CreateSermon publishes a sermon (leader/pastor only).
func (s *Server) CreateSermon(c *fiber.Ctx) error {
	var payload SermonPayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	publishedAt, err := parsePublishedAt(payload.PublishedAt)
	if err != nil {
		return respondError(c, err)
	}

	thumbnail, err := readImageUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	sermon, err := s.sermonService.CreateSermon(c.Context(), service.CreateSermonInput{
		UserID:       currentUserID(c),
		Title:        payload.Title,
		Speaker:      payload.Speaker,
		Topic:        payload.Topic,
		Series:       payload.Series,
		Description:  payload.Description,
		MediaType:    payload.MediaType,
		URL:          payload.URL,
		ThumbnailURL: payload.ThumbnailURL,
		Thumbnail:    thumbnail,
		PublishedAt:  publishedAt,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sermon)
}

// UpdateSermon edits a sermon (leader/pastor only). Only fields present in
// the request are changed.
func (s *Server) UpdateSermon(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	var payload SermonPayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thumbnail, err := readImageUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	in := service.UpdateSermonInput{
		UserID:          currentUserID(c),
		SermonID:        id,
		Thumbnail:       thumbnail,
		RemoveThumbnail: payload.RemoveThumbnail,
	}
	present := fieldsPresent(c)
	if present("title") {
		in.Title = &payload.Title
	}
	if present("speaker") {
		in.Speaker = &payload.Speaker
	}
	if present("topic") {
		in.Topic = &payload.Topic
	}
	if present("series") {
		in.Series = &payload.Series
	}
	if present("description") {
		in.Description = &payload.Description
	}
	if present("media_type") {
		in.MediaType = &payload.MediaType
	}
	if present("url") {
		in.URL = &payload.URL
	}
	if present("thumbnail_url") {
		in.ThumbnailURL = &payload.ThumbnailURL
	}
	if present("published_at") {
		publishedAt, perr := parsePublishedAt(payload.PublishedAt)
		if perr != nil {
			return respondError(c, perr)
		}
		in.PublishedAt = &publishedAt
	}

	sermon, err := s.sermonService.UpdateSermon(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sermon)
}

// DeleteSermon removes a sermon (leader/pastor only).
func (s *Server) DeleteSermon(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.sermonService.DeleteSermon(c.Context(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sermon deleted"})
}

// LikeSermon records the authenticated user's like.
func (s *Server) LikeSermon(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	sermon, err := s.sermonService.LikeSermon(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sermon)
}

// UnlikeSermon removes the authenticated user's like.
func (s *Server) UnlikeSermon(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	sermon, err := s.sermonService.UnlikeSermon(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sermon)
}

// AddSermonComment posts a comment on a sermon.
func (s *Server) AddSermonComment(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	var payload CommentPayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.sermonService.AddComment(c.Context(), currentUserID(c), id, payload.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListSermonComments returns a sermon's comments in posting order.
func (s *Server) ListSermonComments(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	comments, err := s.sermonService.ListComments(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []*models.SermonComment{}
	}
	return c.JSON(comments)
}

// DeleteSermonComment removes a comment (author or leader/pastor).
func (s *Server) DeleteSermonComment(c *fiber.Ctx) error {
	sermonID, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}
	commentID, ok := s.parseID(c, "commentId")
	if !ok {
		return nil
	}

	if err := s.sermonService.DeleteComment(c.Context(), currentUserID(c), sermonID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// parsePublishedAt accepts RFC 3339 timestamps or plain dates. An empty value
// returns the zero time, which the service defaults to now.
func parsePublishedAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, models.NewValidationError("published_at must be RFC 3339 or YYYY-MM-DD")
}

// fieldsPresent reports which keys appear in the request body, so updates can
// distinguish an omitted field from one set to its zero value. Works for both
// JSON bodies and multipart forms.
func fieldsPresent(c *fiber.Ctx) func(key string) bool {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		return func(key string) bool {
			_, ok := form.Value[key]
			return ok
		}
	}

	keys := map[string]struct{}{}
	var raw map[string]any
	if err := c.App().Config().JSONDecoder(c.Body(), &raw); err == nil {
		for k := range raw {
			keys[k] = struct{}{}
		}
	}
	return func(key string) bool {
		_, ok := keys[key]
		return ok
	}
}
