package service

import (
	"context"
	"strings"
	"time"

	"gloryharbor/internal/models"
	"gloryharbor/internal/observability"
	"gloryharbor/internal/repository"
	"gloryharbor/internal/validation"
)

// ContactService owns the contact form intake workflow.
type ContactService struct {
	contactRepo repository.ContactRepository
	isElevated  func(ctx context.Context, userID uint) (bool, error)
}

// SubmitContactInput is a public contact form submission.
type SubmitContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactListResult pairs a page of submissions with the unpaged total.
type ContactListResult struct {
	Contacts []*models.Contact `json:"contacts"`
	Total    int64             `json:"total"`
}

// NewContactService wires a ContactService.
func NewContactService(
	contactRepo repository.ContactRepository,
	isElevated func(ctx context.Context, userID uint) (bool, error),
) *ContactService {
	return &ContactService{contactRepo: contactRepo, isElevated: isElevated}
}

// Submit validates and stores a public contact submission with status "new".
func (s *ContactService) Submit(ctx context.Context, in SubmitContactInput) (*models.Contact, error) {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateName("Name", name); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return nil, models.NewValidationError("Subject is required")
	}
	if len(subject) > 200 {
		return nil, models.NewValidationError("Subject too long (max 200 characters)")
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(message) > 5000 {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}

	contact := &models.Contact{
		Name:    name,
		Email:   email,
		Phone:   strings.TrimSpace(in.Phone),
		Subject: subject,
		Message: message,
		Status:  models.ContactStatusNew,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	observability.ContactSubmissions.Inc()
	return contact, nil
}

// List returns submissions for staff review, optionally filtered by status.
func (s *ContactService) List(ctx context.Context, userID uint, status string, limit, offset int) (*ContactListResult, error) {
	if err := s.requireElevated(ctx, userID); err != nil {
		return nil, err
	}
	if status != "" && !models.ValidContactStatus(status) {
		return nil, models.NewValidationError("status must be new, read or responded")
	}

	contacts, total, err := s.contactRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return &ContactListResult{Contacts: contacts, Total: total}, nil
}

// GetContact returns one submission for staff review.
func (s *ContactService) GetContact(ctx context.Context, userID, contactID uint) (*models.Contact, error) {
	if err := s.requireElevated(ctx, userID); err != nil {
		return nil, err
	}
	return s.contactRepo.GetByID(ctx, contactID)
}

// UpdateStatus moves a submission through the workflow. Marking a submission
// responded records who responded and when; moving it back clears them.
func (s *ContactService) UpdateStatus(ctx context.Context, userID, contactID uint, status string) (*models.Contact, error) {
	if err := s.requireElevated(ctx, userID); err != nil {
		return nil, err
	}
	if !models.ValidContactStatus(status) {
		return nil, models.NewValidationError("status must be new, read or responded")
	}

	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	contact.Status = status
	if status == models.ContactStatusResponded {
		now := time.Now().UTC()
		contact.RespondedBy = &userID
		contact.RespondedAt = &now
	} else {
		contact.RespondedBy = nil
		contact.RespondedAt = nil
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a submission.
func (s *ContactService) DeleteContact(ctx context.Context, userID, contactID uint) error {
	if err := s.requireElevated(ctx, userID); err != nil {
		return err
	}
	if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, contactID)
}

func (s *ContactService) requireElevated(ctx context.Context, userID uint) error {
	elevated, err := s.isElevated(ctx, userID)
	if err != nil {
		return err
	}
	if !elevated {
		return models.NewForbiddenError("Leader or pastor role required")
	}
	return nil
}
