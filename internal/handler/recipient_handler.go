package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"notify-hub/internal/middleware"
	"notify-hub/internal/repository"
)

type RecipientHandler struct {
	recipientRepo repository.RecipientRepository
}

func NewRecipientHandler(recipientRepo repository.RecipientRepository) *RecipientHandler {
	return &RecipientHandler{recipientRepo: recipientRepo}
}

// SetContact registers an email address for offline alerts.
func (h *RecipientHandler) SetContact(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return middleware.BadRequest("Missing user id")
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return middleware.BadRequest("Invalid email address")
	}

	if err := h.recipientRepo.SetEmail(c.Context(), userID, email); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
