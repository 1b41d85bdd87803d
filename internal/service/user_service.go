package service

import (
	"context"
	"strings"

	"gloryharbor/internal/models"
	"gloryharbor/internal/observability"
	"gloryharbor/internal/repository"
	"gloryharbor/internal/validation"
)

// UserService owns the member directory: profiles, avatars, availability
// slots and role administration.
type UserService struct {
	userRepo repository.UserRepository
	images   *ImageService
}

// UpdateProfileInput carries editable profile fields. Nil pointers are left
// unchanged.
type UpdateProfileInput struct {
	ActorID   uint
	TargetID  uint
	FirstName *string
	LastName  *string
	Email     *string
	Status    *string
}

// AvailabilitySlotInput is one weekly serving slot as submitted by a client.
type AvailabilitySlotInput struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewUserService wires a UserService.
func NewUserService(userRepo repository.UserRepository, images *ImageService) *UserService {
	return &UserService{userRepo: userRepo, images: images}
}

// GetUser returns a single member profile.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns the member directory ordered by name.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// ListUsersByRole returns directory members holding the given role.
func (s *UserService) ListUsersByRole(ctx context.Context, role models.Role, limit, offset int) ([]models.User, error) {
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("role must be member, leader or pastor")
	}
	return s.userRepo.ListByRole(ctx, role, limit, offset)
}

// IsElevated reports whether the user holds a leader or pastor role.
func (s *UserService) IsElevated(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role.Elevated(), nil
}

// UpdateProfile edits a member's own profile. Pastors may edit anyone.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if err := s.requireSelfOrPastor(ctx, in.ActorID, in.TargetID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if err := validation.ValidateName("First name", name); err != nil {
			return nil, err
		}
		user.FirstName = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if err := validation.ValidateName("Last name", name); err != nil {
			return nil, err
		}
		user.LastName = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*in.Status))
		if status != models.UserStatusActive && status != models.UserStatusInactive {
			return nil, models.NewValidationError("status must be active or inactive")
		}
		user.Status = status
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, user.ID)
}

// SetRole changes a member's role. Only pastors may assign roles, and a
// pastor cannot demote themself while they are the last pastor.
func (s *UserService) SetRole(ctx context.Context, actorID, targetID uint, role models.Role) (*models.User, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RolePastor {
		return nil, models.NewForbiddenError("Only a pastor can assign roles")
	}
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("role must be member, leader or pastor")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if target.Role == models.RolePastor && role != models.RolePastor {
		pastors, err := s.userRepo.CountByRole(ctx, models.RolePastor)
		if err != nil {
			return nil, err
		}
		if pastors <= 1 {
			return nil, models.NewConflictError("Cannot demote the last remaining pastor")
		}
	}

	target.Role = role
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, target.ID)
}

// SetAvatar stores a new avatar image and removes the previous local one.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, upload UploadImageInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.images.SaveAvatar(upload)
	if err != nil {
		observability.UploadsTotal.WithLabelValues("avatar", "rejected").Inc()
		return nil, err
	}
	observability.UploadsTotal.WithLabelValues("avatar", "stored").Inc()

	old := user.AvatarURL
	user.AvatarURL = stored
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.images.RemoveLocal(stored)
		return nil, err
	}
	if old != "" && old != stored {
		s.images.RemoveLocal(old)
	}
	return s.userRepo.GetByID(ctx, user.ID)
}

// RemoveAvatar clears a member's avatar and deletes the local file.
func (s *UserService) RemoveAvatar(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := user.AvatarURL
	user.AvatarURL = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if old != "" {
		s.images.RemoveLocal(old)
	}
	return s.userRepo.GetByID(ctx, user.ID)
}

// UpdateAvailability replaces a member's weekly serving slots.
func (s *UserService) UpdateAvailability(ctx context.Context, actorID, targetID uint, slots []AvailabilitySlotInput) (*models.User, error) {
	if err := s.requireSelfOrPastor(ctx, actorID, targetID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	if len(slots) > 21 {
		return nil, models.NewValidationError("Too many availability slots (max 21)")
	}

	replacement := make([]models.Availability, 0, len(slots))
	for _, slot := range slots {
		if err := validation.ValidateAvailabilitySlot(slot.Day, slot.Start, slot.End); err != nil {
			return nil, err
		}
		replacement = append(replacement, models.Availability{
			UserID: targetID,
			Day:    strings.ToLower(strings.TrimSpace(slot.Day)),
			Start:  slot.Start,
			End:    slot.End,
		})
	}

	if err := s.userRepo.ReplaceAvailability(ctx, targetID, replacement); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

// DeleteUser removes an account. Members may delete their own; pastors may
// delete anyone except the last remaining pastor.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID uint) error {
	if err := s.requireSelfOrPastor(ctx, actorID, targetID); err != nil {
		return err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == models.RolePastor {
		pastors, err := s.userRepo.CountByRole(ctx, models.RolePastor)
		if err != nil {
			return err
		}
		if pastors <= 1 {
			return models.NewConflictError("Cannot delete the last remaining pastor")
		}
	}

	return s.userRepo.Delete(ctx, targetID)
}

func (s *UserService) requireSelfOrPastor(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return nil
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != models.RolePastor {
		return models.NewForbiddenError("You can only modify your own profile")
	}
	return nil
}
