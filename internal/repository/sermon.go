// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"gloryharbor/internal/cache"
	"gloryharbor/internal/models"
	"gloryharbor/internal/observability"

	"gorm.io/gorm"
)

// SermonFilter narrows a sermon listing. String filters match as
// case-insensitive substrings; Query searches across title, speaker, topic and
// series at once.
type SermonFilter struct {
	Speaker   string
	Topic     string
	Series    string
	Query     string
	MediaType string
}

// SermonRepository defines the interface for sermon catalog operations.
type SermonRepository interface {
	Create(ctx context.Context, sermon *models.Sermon) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Sermon, error)
	List(ctx context.Context, filter SermonFilter, limit, offset int, currentUserID uint) ([]*models.Sermon, int64, error)
	Update(ctx context.Context, sermon *models.Sermon) error
	Delete(ctx context.Context, id uint) error
	CountAll(ctx context.Context) (int64, error)
	Like(ctx context.Context, userID, sermonID uint) error
	Unlike(ctx context.Context, userID, sermonID uint) error
	IsLiked(ctx context.Context, userID, sermonID uint) (bool, error)
	AddComment(ctx context.Context, comment *models.SermonComment) error
	GetComment(ctx context.Context, id uint) (*models.SermonComment, error)
	ListComments(ctx context.Context, sermonID uint) ([]*models.SermonComment, error)
	DeleteComment(ctx context.Context, id uint) error
}

// sermonRepository implements SermonRepository
type sermonRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewSermonRepository creates a new sermon repository
func NewSermonRepository(db *gorm.DB) SermonRepository {
	return &sermonRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *sermonRepository) Create(ctx context.Context, sermon *models.Sermon) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "create", "sermons")
	defer span.End()
	defer r.metrics.TrackQuery("create", "sermons")()

	if err := r.db.WithContext(ctx).Create(sermon).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A sermon with this title, speaker and date already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateSermonLists(ctx)
	return nil
}

func (r *sermonRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Sermon, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "get", "sermons")
	defer span.End()
	defer r.metrics.TrackQuery("get", "sermons")()

	var sermon models.Sermon
	err := r.applySermonDetails(r.db.WithContext(ctx), currentUserID).
		First(&sermon, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Sermon", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &sermon, nil
}

func (r *sermonRepository) List(ctx context.Context, filter SermonFilter, limit, offset int, currentUserID uint) ([]*models.Sermon, int64, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "list", "sermons")
	defer span.End()
	defer r.metrics.TrackQuery("list", "sermons")()

	base := r.applyFilter(r.db.WithContext(ctx).Model(&models.Sermon{}), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var sermons []*models.Sermon
	err := r.applySermonDetails(base.Session(&gorm.Session{}), currentUserID).
		Order("published_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&sermons).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return sermons, total, nil
}

// applyFilter builds the WHERE clause for a catalog listing. lower(...) LIKE
// keeps matching case-insensitive on both PostgreSQL and SQLite.
func (r *sermonRepository) applyFilter(db *gorm.DB, filter SermonFilter) *gorm.DB {
	if filter.Speaker != "" {
		db = db.Where("lower(speaker) LIKE lower(?)", "%"+filter.Speaker+"%")
	}
	if filter.Topic != "" {
		db = db.Where("lower(topic) LIKE lower(?)", "%"+filter.Topic+"%")
	}
	if filter.Series != "" {
		db = db.Where("lower(series) LIKE lower(?)", "%"+filter.Series+"%")
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		db = db.Where(
			"lower(title) LIKE lower(?) OR lower(speaker) LIKE lower(?) OR lower(topic) LIKE lower(?) OR lower(series) LIKE lower(?)",
			like, like, like, like,
		)
	}

	// SoundCloud links play as audio regardless of their stored media type,
	// so the audio filter includes them and the video filter excludes them.
	switch filter.MediaType {
	case models.MediaTypeAudio:
		db = db.Where("media_type = ? OR url LIKE ?", models.MediaTypeAudio, "%soundcloud.com%")
	case models.MediaTypeVideo:
		db = db.Where("media_type = ? AND url NOT LIKE ?", models.MediaTypeVideo, "%soundcloud.com%")
	}

	return db
}

// applySermonDetails adds subqueries to fetch counts and liked status in a single query.
func (r *sermonRepository) applySermonDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "sermons.*, " +
		"(SELECT COUNT(*) FROM sermon_comments WHERE sermon_comments.sermon_id = sermons.id) as comments_count, " +
		"(SELECT COUNT(*) FROM sermon_likes WHERE sermon_likes.sermon_id = sermons.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM sermon_likes WHERE sermon_likes.sermon_id = sermons.id AND sermon_likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *sermonRepository) Update(ctx context.Context, sermon *models.Sermon) error {
	if err := r.db.WithContext(ctx).Omit("Comments").Save(sermon).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A sermon with this title, speaker and date already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateSermon(ctx, sermon.ID)
	cache.InvalidateSermonLists(ctx)
	return nil
}

func (r *sermonRepository) Delete(ctx context.Context, id uint) error {
	// Likes and comments go with the sermon; done here rather than relying on
	// database-level cascades so sqlite test runs behave like postgres.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sermon_id = ?", id).Delete(&models.SermonLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sermon_id = ?", id).Delete(&models.SermonComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sermon{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSermon(ctx, id)
	cache.InvalidateSermonLists(ctx)
	return nil
}

// CountAll returns the total number of sermons ignoring any filter. The
// fallback seeder keys off this count being zero.
func (r *sermonRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Sermon{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *sermonRepository) Like(ctx context.Context, userID, sermonID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING makes repeated likes a no-op and is
	// atomic under concurrent requests.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO sermon_likes (user_id, sermon_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, sermon_id) DO NOTHING`,
		userID, sermonID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateSermon(ctx, sermonID)
	cache.InvalidateSermonLists(ctx)
	return nil
}

func (r *sermonRepository) Unlike(ctx context.Context, userID, sermonID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sermon_id = ?", userID, sermonID).
		Delete(&models.SermonLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSermon(ctx, sermonID)
	cache.InvalidateSermonLists(ctx)
	return nil
}

func (r *sermonRepository) IsLiked(ctx context.Context, userID, sermonID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SermonLike{}).
		Where("user_id = ? AND sermon_id = ?", userID, sermonID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *sermonRepository) AddComment(ctx context.Context, comment *models.SermonComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSermon(ctx, comment.SermonID)
	cache.InvalidateSermonLists(ctx)
	return nil
}

func (r *sermonRepository) GetComment(ctx context.Context, id uint) (*models.SermonComment, error) {
	var comment models.SermonComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *sermonRepository) ListComments(ctx context.Context, sermonID uint) ([]*models.SermonComment, error) {
	var comments []*models.SermonComment
	err := r.db.WithContext(ctx).
		Where("sermon_id = ?", sermonID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *sermonRepository) DeleteComment(ctx context.Context, id uint) error {
	var comment models.SermonComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSermon(ctx, comment.SermonID)
	cache.InvalidateSermonLists(ctx)
	return nil
}
