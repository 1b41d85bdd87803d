package server

import (
	"gloryharbor/internal/models"
	"gloryharbor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserUpdatePayload carries editable profile fields. Pointer fields
// distinguish "omitted" from "set to empty".
type UserUpdatePayload struct {
	FirstName    *string                          `json:"first_name"`
	LastName     *string                          `json:"last_name"`
	Email        *string                          `json:"email"`
	Status       *string                          `json:"status"`
	Availability *[]service.AvailabilitySlotInput `json:"availability"`
}

// RolePayload is the body for a role change.
type RolePayload struct {
	Role string `json:"role"`
}

// AvailabilityPayload is the body for replacing serving slots.
type AvailabilityPayload struct {
	Availability []service.AvailabilitySlotInput `json:"availability"`
}

// ListUsers returns the member directory.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

// ListUsersByRole returns directory members holding the given role.
func (s *Server) ListUsersByRole(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	users, err := s.userService.ListUsersByRole(c.Context(), models.Role(c.Params("role")), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

// GetUser returns a single member profile.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	user, err := s.userService.GetUser(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser edits a profile (owner or pastor). A request may carry profile
// fields, availability slots, or both.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	var payload UserUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	actorID := currentUserID(c)
	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		ActorID:   actorID,
		TargetID:  id,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Status:    payload.Status,
	})
	if err != nil {
		return respondError(c, err)
	}

	if payload.Availability != nil {
		user, err = s.userService.UpdateAvailability(c.Context(), actorID, id, *payload.Availability)
		if err != nil {
			return respondError(c, err)
		}
	}
	return c.JSON(user)
}

// SetUserRole changes a member's role (pastor only).
func (s *Server) SetUserRole(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	var payload RolePayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SetRole(c.Context(), currentUserID(c), id, models.Role(payload.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateAvailability replaces a member's serving slots (owner or pastor).
func (s *Server) UpdateAvailability(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	var payload AvailabilityPayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateAvailability(c.Context(), currentUserID(c), id, payload.Availability)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UploadAvatar stores a new profile photo for the authenticated user.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	upload, err := readImageUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	if upload == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	user, err := s.userService.SetAvatar(c.Context(), currentUserID(c), *upload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// RemoveAvatar clears the authenticated user's profile photo.
func (s *Server) RemoveAvatar(c *fiber.Ctx) error {
	user, err := s.userService.RemoveAvatar(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser removes an account (owner or pastor).
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.userService.DeleteUser(c.Context(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
