package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gloryharbor/internal/models"
)

func TestSubmitContact(t *testing.T) {
	var created *models.Contact
	repo := &stubContactRepo{
		create: func(ctx context.Context, contact *models.Contact) error {
			contact.ID = 1
			created = contact
			return nil
		},
	}
	svc := NewContactService(repo, denyAll)

	contact, err := svc.Submit(context.Background(), SubmitContactInput{
		Name:    "  Tunde Bakare ",
		Email:   "Tunde@Example.COM",
		Phone:   " +234 801 234 5678 ",
		Subject: "Prayer request",
		Message: "Please pray for my family this week.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Tunde Bakare", contact.Name)
	assert.Equal(t, "tunde@example.com", contact.Email)
	assert.Equal(t, "+234 801 234 5678", contact.Phone)
	assert.Equal(t, models.ContactStatusNew, contact.Status)
	assert.Nil(t, contact.RespondedBy)
	assert.Same(t, created, contact)
}

func TestSubmitContactValidation(t *testing.T) {
	svc := NewContactService(&stubContactRepo{}, denyAll)

	valid := SubmitContactInput{
		Name:    "Tunde Bakare",
		Email:   "tunde@example.com",
		Subject: "Hello",
		Message: "A message.",
	}

	tests := []struct {
		name   string
		mutate func(in *SubmitContactInput)
	}{
		{"missing name", func(in *SubmitContactInput) { in.Name = "  " }},
		{"bad email", func(in *SubmitContactInput) { in.Email = "nope" }},
		{"missing subject", func(in *SubmitContactInput) { in.Subject = "" }},
		{"missing message", func(in *SubmitContactInput) { in.Message = "   " }},
		{"message too long", func(in *SubmitContactInput) { in.Message = strings.Repeat("x", 5001) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := svc.Submit(context.Background(), in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, models.ErrCodeValidation, appErr.Code)
		})
	}
}

func TestListContactsRequiresElevatedRole(t *testing.T) {
	svc := NewContactService(&stubContactRepo{}, denyAll)

	_, err := svc.List(context.Background(), 9, "", 20, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.ErrCodeForbidden, appErr.Code)
}

func TestListContactsStatusFilter(t *testing.T) {
	var seenStatus string
	repo := &stubContactRepo{
		list: func(ctx context.Context, status string, limit, offset int) ([]*models.Contact, int64, error) {
			seenStatus = status
			return []*models.Contact{{ID: 1, Status: status}}, 1, nil
		},
	}
	svc := NewContactService(repo, allowAll)

	result, err := svc.List(context.Background(), 1, models.ContactStatusRead, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, seenStatus)
	assert.Equal(t, int64(1), result.Total)

	_, err = svc.List(context.Background(), 1, "archived", 20, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.ErrCodeValidation, appErr.Code)
}

func TestUpdateStatusRespondedStampsResponder(t *testing.T) {
	stored := &models.Contact{ID: 3, Name: "T", Email: "t@example.com", Subject: "S", Message: "M", Status: models.ContactStatusNew}
	repo := &stubContactRepo{
		getByID: func(ctx context.Context, id uint) (*models.Contact, error) {
			clone := *stored
			return &clone, nil
		},
		update: func(ctx context.Context, contact *models.Contact) error {
			stored = contact
			return nil
		},
	}
	svc := NewContactService(repo, allowAll)

	updated, err := svc.UpdateStatus(context.Background(), 12, 3, models.ContactStatusResponded)
	require.NoError(t, err)

	assert.Equal(t, models.ContactStatusResponded, updated.Status)
	require.NotNil(t, updated.RespondedBy)
	assert.Equal(t, uint(12), *updated.RespondedBy)
	require.NotNil(t, updated.RespondedAt)

	// Moving back to read clears the response stamp.
	updated, err = svc.UpdateStatus(context.Background(), 12, 3, models.ContactStatusRead)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, updated.Status)
	assert.Nil(t, updated.RespondedBy)
	assert.Nil(t, updated.RespondedAt)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewContactService(&stubContactRepo{}, allowAll)

	_, err := svc.UpdateStatus(context.Background(), 1, 3, "spam")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.ErrCodeValidation, appErr.Code)
}

func TestDeleteContact(t *testing.T) {
	deleted := false
	repo := &stubContactRepo{
		getByID: func(ctx context.Context, id uint) (*models.Contact, error) {
			return &models.Contact{ID: id}, nil
		},
		delete: func(ctx context.Context, id uint) error {
			deleted = true
			return nil
		},
	}

	svc := NewContactService(repo, allowAll)
	require.NoError(t, svc.DeleteContact(context.Background(), 1, 7))
	assert.True(t, deleted)

	svc = NewContactService(repo, denyAll)
	err := svc.DeleteContact(context.Background(), 2, 7)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.ErrCodeForbidden, appErr.Code)
}
