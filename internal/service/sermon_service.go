package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"gloryharbor/internal/cache"
	"gloryharbor/internal/middleware"
	"gloryharbor/internal/models"
	"gloryharbor/internal/observability"
	"gloryharbor/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// SermonService owns the sermon catalog: listing with fallback seeding,
// publishing, engagement and comment moderation.
type SermonService struct {
	sermonRepo repository.SermonRepository
	userRepo   repository.UserRepository
	images     *ImageService
	// seedFallback installs the built-in catalog; injected so tests can stub it.
	seedFallback func(ctx context.Context) error
	// isElevated reports whether the user holds a leader or pastor role.
	isElevated func(ctx context.Context, userID uint) (bool, error)

	seedMu sync.Mutex
}

// ListSermonsInput narrows and pages a catalog listing.
type ListSermonsInput struct {
	Filter        repository.SermonFilter
	Limit         int
	Offset        int
	CurrentUserID uint
}

// CreateSermonInput is the payload for publishing a sermon.
type CreateSermonInput struct {
	UserID       uint
	Title        string
	Speaker      string
	Topic        string
	Series       string
	Description  string
	MediaType    string
	URL          string
	ThumbnailURL string
	Thumbnail    *UploadImageInput
	PublishedAt  time.Time
}

// UpdateSermonInput is the payload for editing a sermon. Nil pointer fields
// are left unchanged.
type UpdateSermonInput struct {
	UserID      uint
	SermonID    uint
	Title       *string
	Speaker     *string
	Topic       *string
	Series      *string
	Description *string
	MediaType   *string
	URL         *string
	PublishedAt *time.Time

	// Thumbnail precedence: an uploaded file wins over RemoveThumbnail,
	// which wins over ThumbnailURL; all unset leaves the thumbnail alone.
	Thumbnail       *UploadImageInput
	RemoveThumbnail bool
	ThumbnailURL    *string
}

// SermonListResult pairs a listing page with its unpaged total.
type SermonListResult struct {
	Sermons []*models.Sermon `json:"sermons"`
	Total   int64            `json:"total"`
}

// NewSermonService wires a SermonService.
func NewSermonService(
	sermonRepo repository.SermonRepository,
	userRepo repository.UserRepository,
	images *ImageService,
	seedFallback func(ctx context.Context) error,
	isElevated func(ctx context.Context, userID uint) (bool, error),
) *SermonService {
	return &SermonService{
		sermonRepo:   sermonRepo,
		userRepo:     userRepo,
		images:       images,
		seedFallback: seedFallback,
		isElevated:   isElevated,
	}
}

// ListSermons returns a filtered catalog page. When the whole catalog is empty
// the built-in fallback sermons are installed first; a filter that merely
// matches nothing returns an empty page without seeding.
func (s *SermonService) ListSermons(ctx context.Context, in ListSermonsInput) (*SermonListResult, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}

	var result SermonListResult

	// Anonymous listings are cacheable; the liked flag personalizes
	// authenticated ones so those always hit the database.
	if in.CurrentUserID == 0 {
		key := cache.SermonListKey(listCacheHash(in))
		err := cache.Aside(ctx, key, &result, cache.SermonListTTL, func() error {
			sermons, total, fetchErr := s.sermonRepo.List(ctx, in.Filter, in.Limit, in.Offset, 0)
			if fetchErr != nil {
				return fetchErr
			}
			result = SermonListResult{Sermons: sermons, Total: total}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if result.Sermons == nil {
			result.Sermons = []*models.Sermon{}
		}
		return &result, nil
	}

	sermons, total, err := s.sermonRepo.List(ctx, in.Filter, in.Limit, in.Offset, in.CurrentUserID)
	if err != nil {
		return nil, err
	}
	if sermons == nil {
		sermons = []*models.Sermon{}
	}
	return &SermonListResult{Sermons: sermons, Total: total}, nil
}

// ensureSeeded installs the fallback catalog when the sermon table is empty.
func (s *SermonService) ensureSeeded(ctx context.Context) error {
	count, err := s.sermonRepo.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	// Re-check under the lock; another request may have seeded already.
	count, err = s.sermonRepo.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	span, ctx := observability.NewSpan(ctx, "sermons.seed_fallback")
	span.AddAttributes(attribute.String("seed.trigger", "empty_catalog"))
	defer span.End()

	if err := s.seedFallback(ctx); err != nil {
		span.SetError(err)
		observability.SermonSeedRuns.WithLabelValues("error").Inc()
		return models.NewInternalError(err)
	}
	observability.SermonSeedRuns.WithLabelValues("seeded").Inc()
	middleware.Logger.InfoContext(ctx, "sermon catalog was empty, installed fallback sermons",
		"trace_id", span.TraceID())
	cache.InvalidateSermonLists(ctx)
	return nil
}

// GetSermon returns a single sermon with engagement counts.
func (s *SermonService) GetSermon(ctx context.Context, id uint, currentUserID uint) (*models.Sermon, error) {
	return s.sermonRepo.GetByID(ctx, id, currentUserID)
}

// CreateSermon publishes a new sermon. Only leaders and pastors may publish.
func (s *SermonService) CreateSermon(ctx context.Context, in CreateSermonInput) (*models.Sermon, error) {
	if err := s.requireElevated(ctx, in.UserID); err != nil {
		return nil, err
	}
	if err := validateSermonFields(in.Title, in.Speaker, in.MediaType, in.URL); err != nil {
		return nil, err
	}

	publishedAt := in.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	thumbnailURL := strings.TrimSpace(in.ThumbnailURL)
	if in.Thumbnail != nil {
		stored, err := s.images.SaveSermonThumbnail(*in.Thumbnail)
		if err != nil {
			observability.UploadsTotal.WithLabelValues("thumbnail", "rejected").Inc()
			return nil, err
		}
		observability.UploadsTotal.WithLabelValues("thumbnail", "stored").Inc()
		thumbnailURL = stored
	}

	sermon := &models.Sermon{
		Title:        strings.TrimSpace(in.Title),
		Speaker:      strings.TrimSpace(in.Speaker),
		Topic:        strings.TrimSpace(in.Topic),
		Series:       strings.TrimSpace(in.Series),
		Description:  in.Description,
		MediaType:    in.MediaType,
		URL:          strings.TrimSpace(in.URL),
		ThumbnailURL: thumbnailURL,
		PublishedAt:  publishedAt,
	}
	if err := s.sermonRepo.Create(ctx, sermon); err != nil {
		// The stored thumbnail has no owner if the insert failed.
		if in.Thumbnail != nil && thumbnailURL != "" {
			s.images.RemoveLocal(thumbnailURL)
		}
		return nil, err
	}
	return s.sermonRepo.GetByID(ctx, sermon.ID, in.UserID)
}

// UpdateSermon edits a sermon's fields and thumbnail.
func (s *SermonService) UpdateSermon(ctx context.Context, in UpdateSermonInput) (*models.Sermon, error) {
	if err := s.requireElevated(ctx, in.UserID); err != nil {
		return nil, err
	}

	sermon, err := s.sermonRepo.GetByID(ctx, in.SermonID, 0)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		sermon.Title = strings.TrimSpace(*in.Title)
	}
	if in.Speaker != nil {
		sermon.Speaker = strings.TrimSpace(*in.Speaker)
	}
	if in.Topic != nil {
		sermon.Topic = strings.TrimSpace(*in.Topic)
	}
	if in.Series != nil {
		sermon.Series = strings.TrimSpace(*in.Series)
	}
	if in.Description != nil {
		sermon.Description = *in.Description
	}
	if in.MediaType != nil {
		sermon.MediaType = *in.MediaType
	}
	if in.URL != nil {
		sermon.URL = strings.TrimSpace(*in.URL)
	}
	if in.PublishedAt != nil {
		sermon.PublishedAt = *in.PublishedAt
	}
	if err := validateSermonFields(sermon.Title, sermon.Speaker, sermon.MediaType, sermon.URL); err != nil {
		return nil, err
	}

	oldThumbnail := sermon.ThumbnailURL
	switch {
	case in.Thumbnail != nil:
		stored, upErr := s.images.SaveSermonThumbnail(*in.Thumbnail)
		if upErr != nil {
			observability.UploadsTotal.WithLabelValues("thumbnail", "rejected").Inc()
			return nil, upErr
		}
		observability.UploadsTotal.WithLabelValues("thumbnail", "stored").Inc()
		sermon.ThumbnailURL = stored
	case in.RemoveThumbnail:
		sermon.ThumbnailURL = ""
	case in.ThumbnailURL != nil:
		sermon.ThumbnailURL = strings.TrimSpace(*in.ThumbnailURL)
	}

	if err := s.sermonRepo.Update(ctx, sermon); err != nil {
		if in.Thumbnail != nil && sermon.ThumbnailURL != oldThumbnail {
			s.images.RemoveLocal(sermon.ThumbnailURL)
		}
		return nil, err
	}

	// The replaced local file is now orphaned.
	if oldThumbnail != "" && oldThumbnail != sermon.ThumbnailURL {
		s.images.RemoveLocal(oldThumbnail)
	}

	return s.sermonRepo.GetByID(ctx, sermon.ID, in.UserID)
}

// DeleteSermon removes a sermon and its locally stored thumbnail.
func (s *SermonService) DeleteSermon(ctx context.Context, userID, sermonID uint) error {
	if err := s.requireElevated(ctx, userID); err != nil {
		return err
	}

	sermon, err := s.sermonRepo.GetByID(ctx, sermonID, 0)
	if err != nil {
		return err
	}
	if err := s.sermonRepo.Delete(ctx, sermonID); err != nil {
		return err
	}
	if sermon.ThumbnailURL != "" {
		s.images.RemoveLocal(sermon.ThumbnailURL)
	}
	return nil
}

// LikeSermon records the user's like. Liking an already-liked sermon is a no-op.
func (s *SermonService) LikeSermon(ctx context.Context, userID, sermonID uint) (*models.Sermon, error) {
	if _, err := s.sermonRepo.GetByID(ctx, sermonID, 0); err != nil {
		return nil, err
	}
	if err := s.sermonRepo.Like(ctx, userID, sermonID); err != nil {
		return nil, err
	}
	return s.sermonRepo.GetByID(ctx, sermonID, userID)
}

// UnlikeSermon removes the user's like. Unliking twice is a no-op.
func (s *SermonService) UnlikeSermon(ctx context.Context, userID, sermonID uint) (*models.Sermon, error) {
	if _, err := s.sermonRepo.GetByID(ctx, sermonID, 0); err != nil {
		return nil, err
	}
	if err := s.sermonRepo.Unlike(ctx, userID, sermonID); err != nil {
		return nil, err
	}
	return s.sermonRepo.GetByID(ctx, sermonID, userID)
}

// AddComment posts a comment, snapshotting the author's display fields.
func (s *SermonService) AddComment(ctx context.Context, userID, sermonID uint, text string) (*models.SermonComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > 2000 {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	if _, err := s.sermonRepo.GetByID(ctx, sermonID, 0); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.SermonComment{
		SermonID:  sermonID,
		UserID:    author.ID,
		FirstName: author.FirstName,
		LastName:  author.LastName,
		Role:      author.Role,
		AvatarURL: author.AvatarURL,
		Text:      text,
	}
	if err := s.sermonRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a sermon's comments in posting order.
func (s *SermonService) ListComments(ctx context.Context, sermonID uint) ([]*models.SermonComment, error) {
	if _, err := s.sermonRepo.GetByID(ctx, sermonID, 0); err != nil {
		return nil, err
	}
	return s.sermonRepo.ListComments(ctx, sermonID)
}

// DeleteComment removes a comment from the given sermon. Allowed for its
// author and for elevated roles.
func (s *SermonService) DeleteComment(ctx context.Context, userID, sermonID, commentID uint) error {
	comment, err := s.sermonRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.SermonID != sermonID {
		return models.NewNotFoundError("Comment", commentID)
	}

	if comment.UserID != userID {
		elevated, err := s.isElevated(ctx, userID)
		if err != nil {
			return err
		}
		if !elevated {
			return models.NewForbiddenError("Only the comment author or a leader can delete this comment")
		}
	}

	return s.sermonRepo.DeleteComment(ctx, commentID)
}

func (s *SermonService) requireElevated(ctx context.Context, userID uint) error {
	elevated, err := s.isElevated(ctx, userID)
	if err != nil {
		return err
	}
	if !elevated {
		return models.NewForbiddenError("Leader or pastor role required")
	}
	return nil
}

func validateSermonFields(title, speaker, mediaType, rawURL string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > 300 {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(speaker) == "" {
		return models.NewValidationError("Speaker is required")
	}
	if !models.ValidMediaType(mediaType) {
		return models.NewValidationError("media_type must be video or audio")
	}
	if strings.TrimSpace(rawURL) == "" {
		return models.NewValidationError("URL is required")
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(rawURL)); err != nil {
		return models.NewValidationError("URL must be a valid URL")
	}
	return nil
}

// listCacheHash deterministically encodes a listing request for the cache key.
func listCacheHash(in ListSermonsInput) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%s|%d|%d",
		strings.ToLower(in.Filter.Speaker),
		strings.ToLower(in.Filter.Topic),
		strings.ToLower(in.Filter.Series),
		strings.ToLower(in.Filter.Query),
		in.Filter.MediaType,
		in.Limit,
		in.Offset,
	)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}
