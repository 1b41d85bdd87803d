package server

import (
	"gloryharbor/internal/models"
	"gloryharbor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ContactStatusPayload is the body for a contact workflow transition.
type ContactStatusPayload struct {
	Status string `json:"status"`
}

// SubmitContact accepts a public contact form submission.
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var payload service.SubmitContactInput
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	contact, err := s.contactService.Submit(c.Context(), payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// ListContacts returns submissions for staff review, newest first.
// Query params: status, limit, offset.
func (s *Server) ListContacts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	result, err := s.contactService.List(c.Context(), currentUserID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetContact returns one submission for staff review.
func (s *Server) GetContact(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	contact, err := s.contactService.GetContact(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contact)
}

// UpdateContactStatus moves a submission through the review workflow.
func (s *Server) UpdateContactStatus(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	var payload ContactStatusPayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	contact, err := s.contactService.UpdateStatus(c.Context(), currentUserID(c), id, payload.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contact)
}

// DeleteContact removes a submission (leader/pastor).
func (s *Server) DeleteContact(c *fiber.Ctx) error {
	id, ok := s.parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.contactService.DeleteContact(c.Context(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contact submission deleted"})
}
