package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"notify-hub/internal/domain"
	"notify-hub/internal/middleware"
	"notify-hub/internal/service/readstate"
)

type NotificationHandler struct {
	readState readstate.Service
}

func NewNotificationHandler(readState readstate.Service) *NotificationHandler {
	return &NotificationHandler{readState: readState}
}

// List returns a user's notification history, unseen and seen, newest
// first. Clients rehydrate from this on reconnect.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return middleware.BadRequest("Missing user id")
	}

	params := domain.DefaultPagination()
	if page, err := strconv.Atoi(c.Query("page", "1")); err == nil && page > 0 {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size", "20")); err == nil && pageSize > 0 {
		params.PageSize = pageSize
	}

	result, err := h.readState.List(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) UnseenCount(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return middleware.BadRequest("Missing user id")
	}

	count, err := h.readState.UnseenCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

// Acknowledge marks everything unseen for the user as seen and returns
// the acknowledged batch. Safe to call repeatedly.
func (h *NotificationHandler) Acknowledge(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return middleware.BadRequest("Missing user id")
	}

	acknowledged, err := h.readState.Acknowledge(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"acknowledged": acknowledged,
		"count":        len(acknowledged),
	})
}

// Clear deletes the user's seen notifications.
func (h *NotificationHandler) Clear(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return middleware.BadRequest("Missing user id")
	}

	removed, err := h.readState.Clear(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"removed": removed,
	})
}
