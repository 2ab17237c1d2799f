package handler

import (
	"github.com/gofiber/fiber/v2"

	"notify-hub/internal/domain"
	"notify-hub/internal/middleware"
	"notify-hub/internal/service/dispatcher"
)

type PublishHandler struct {
	dispatcher dispatcher.Service
}

func NewPublishHandler(d dispatcher.Service) *PublishHandler {
	return &PublishHandler{dispatcher: d}
}

// Publish accepts {message, user_id?}; omitting user_id broadcasts to
// every known recipient.
func (h *PublishHandler) Publish(c *fiber.Ctx) error {
	var input domain.PublishInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.dispatcher.Publish(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"delivered": len(created),
		"broadcast": input.IsBroadcast(),
	})
}
