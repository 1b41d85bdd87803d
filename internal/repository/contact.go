// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"gloryharbor/internal/models"

	"gorm.io/gorm"
)

// ContactRepository defines persistence operations for contact submissions.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uint) (*models.Contact, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Contact, int64, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Contact", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Contact, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Contact{})
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var contacts []*models.Contact
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return contacts, total, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *models.Contact) error {
	if err := r.db.WithContext(ctx).Save(contact).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Contact{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
