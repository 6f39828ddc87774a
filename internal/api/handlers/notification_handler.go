package handlers

import (
	"github.com/flowpost/flowpost/internal/service"
	"github.com/flowpost/flowpost/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	s service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{s: service}
}

func (h *NotificationHandler) GetSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)

	settings, err := h.s.GetSettings(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get notification settings",
		})
	}

	return c.Status(fiber.StatusOK).JSON(settings)
}

func (h *NotificationHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var update transfer.NotificationUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if err := h.s.UpdateSettings(c.Context(), userID, &update); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to update notification settings",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
