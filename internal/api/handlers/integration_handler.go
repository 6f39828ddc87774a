package handlers

import (
	"errors"
	"strconv"

	"github.com/flowpost/flowpost/internal/service"
	"github.com/flowpost/flowpost/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type IntegrationHandler struct {
	s service.IntegrationService
}

func NewIntegrationHandler(service service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{s: service}
}

func (h *IntegrationHandler) ListIntegrations(c *fiber.Ctx) error {
	userID := GetUserID(c)

	integrations, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list integrations",
		})
	}

	return c.Status(fiber.StatusOK).JSON(integrations)
}

func (h *IntegrationHandler) CreateIntegration(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var request transfer.IntegrationCreateRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err := h.s.Create(c.Context(), userID, request.Provider, request.Config)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown integration provider",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create integration",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *IntegrationHandler) RemoveIntegration(c *fiber.Ctx) error {
	userID := GetUserID(c)

	integrationID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid integration id",
		})
	}

	err = h.s.Remove(c.Context(), userID, integrationID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Integration doesn't exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove integration",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
