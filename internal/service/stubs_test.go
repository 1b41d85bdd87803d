package service

import (
	"context"

	"gloryharbor/internal/models"
	"gloryharbor/internal/repository"
)

// stubSermonRepo implements repository.SermonRepository with overridable
// function fields so each test only wires what it needs.
type stubSermonRepo struct {
	getByID      func(ctx context.Context, id uint, currentUserID uint) (*models.Sermon, error)
	list         func(ctx context.Context, filter repository.SermonFilter, limit, offset int, currentUserID uint) ([]*models.Sermon, int64, error)
	create       func(ctx context.Context, sermon *models.Sermon) error
	update       func(ctx context.Context, sermon *models.Sermon) error
	delete       func(ctx context.Context, id uint) error
	countAll     func(ctx context.Context) (int64, error)
	like         func(ctx context.Context, userID, sermonID uint) error
	unlike       func(ctx context.Context, userID, sermonID uint) error
	isLiked      func(ctx context.Context, userID, sermonID uint) (bool, error)
	addComment   func(ctx context.Context, comment *models.SermonComment) error
	getComment   func(ctx context.Context, id uint) (*models.SermonComment, error)
	listComments func(ctx context.Context, sermonID uint) ([]*models.SermonComment, error)
	delComment   func(ctx context.Context, id uint) error
}

func (s *stubSermonRepo) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Sermon, error) {
	return s.getByID(ctx, id, currentUserID)
}

func (s *stubSermonRepo) List(ctx context.Context, filter repository.SermonFilter, limit, offset int, currentUserID uint) ([]*models.Sermon, int64, error) {
	return s.list(ctx, filter, limit, offset, currentUserID)
}

func (s *stubSermonRepo) Create(ctx context.Context, sermon *models.Sermon) error {
	return s.create(ctx, sermon)
}

func (s *stubSermonRepo) Update(ctx context.Context, sermon *models.Sermon) error {
	return s.update(ctx, sermon)
}

func (s *stubSermonRepo) Delete(ctx context.Context, id uint) error {
	return s.delete(ctx, id)
}

func (s *stubSermonRepo) CountAll(ctx context.Context) (int64, error) {
	return s.countAll(ctx)
}

func (s *stubSermonRepo) Like(ctx context.Context, userID, sermonID uint) error {
	return s.like(ctx, userID, sermonID)
}

func (s *stubSermonRepo) Unlike(ctx context.Context, userID, sermonID uint) error {
	return s.unlike(ctx, userID, sermonID)
}

func (s *stubSermonRepo) IsLiked(ctx context.Context, userID, sermonID uint) (bool, error) {
	return s.isLiked(ctx, userID, sermonID)
}

func (s *stubSermonRepo) AddComment(ctx context.Context, comment *models.SermonComment) error {
	return s.addComment(ctx, comment)
}

func (s *stubSermonRepo) GetComment(ctx context.Context, id uint) (*models.SermonComment, error) {
	return s.getComment(ctx, id)
}

func (s *stubSermonRepo) ListComments(ctx context.Context, sermonID uint) ([]*models.SermonComment, error) {
	return s.listComments(ctx, sermonID)
}

func (s *stubSermonRepo) DeleteComment(ctx context.Context, id uint) error {
	return s.delComment(ctx, id)
}

// stubUserRepo implements repository.UserRepository.
type stubUserRepo struct {
	getByID             func(ctx context.Context, id uint) (*models.User, error)
	getByEmail          func(ctx context.Context, email string) (*models.User, error)
	create              func(ctx context.Context, user *models.User) error
	update              func(ctx context.Context, user *models.User) error
	replaceAvailability func(ctx context.Context, userID uint, slots []models.Availability) error
	delete              func(ctx context.Context, id uint) error
	list                func(ctx context.Context, limit, offset int) ([]models.User, error)
	listByRole          func(ctx context.Context, role models.Role, limit, offset int) ([]models.User, error)
	countByRole         func(ctx context.Context, role models.Role) (int64, error)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByID(ctx, id)
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmail(ctx, email)
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return s.create(ctx, user)
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	return s.update(ctx, user)
}

func (s *stubUserRepo) ReplaceAvailability(ctx context.Context, userID uint, slots []models.Availability) error {
	return s.replaceAvailability(ctx, userID, slots)
}

func (s *stubUserRepo) Delete(ctx context.Context, id uint) error {
	return s.delete(ctx, id)
}

func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.list(ctx, limit, offset)
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role models.Role, limit, offset int) ([]models.User, error) {
	return s.listByRole(ctx, role, limit, offset)
}

func (s *stubUserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return s.countByRole(ctx, role)
}

// stubContactRepo implements repository.ContactRepository.
type stubContactRepo struct {
	create  func(ctx context.Context, contact *models.Contact) error
	getByID func(ctx context.Context, id uint) (*models.Contact, error)
	list    func(ctx context.Context, status string, limit, offset int) ([]*models.Contact, int64, error)
	update  func(ctx context.Context, contact *models.Contact) error
	delete  func(ctx context.Context, id uint) error
}

func (s *stubContactRepo) Create(ctx context.Context, contact *models.Contact) error {
	return s.create(ctx, contact)
}

func (s *stubContactRepo) GetByID(ctx context.Context, id uint) (*models.Contact, error) {
	return s.getByID(ctx, id)
}

func (s *stubContactRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Contact, int64, error) {
	return s.list(ctx, status, limit, offset)
}

func (s *stubContactRepo) Update(ctx context.Context, contact *models.Contact) error {
	return s.update(ctx, contact)
}

func (s *stubContactRepo) Delete(ctx context.Context, id uint) error {
	return s.delete(ctx, id)
}

func allowAll(context.Context, uint) (bool, error) { return true, nil }
func denyAll(context.Context, uint) (bool, error)  { return false, nil }
