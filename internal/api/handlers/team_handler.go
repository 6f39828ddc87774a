package handlers

import (
	"errors"

	"github.com/flowpost/flowpost/internal/service"
	"github.com/flowpost/flowpost/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type TeamHandler struct {
	s service.TeamService
}

func NewTeamHandler(service service.TeamService) *TeamHandler {
	return &TeamHandler{s: service}
}

func (h *TeamHandler) ListMembers(c *fiber.Ctx) error {
	userID := GetUserID(c)

	members, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list team members",
		})
	}

	return c.Status(fiber.StatusOK).JSON(members)
}

func (h *TeamHandler) InviteMember(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var request transfer.TeamInviteRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err := h.s.Invite(c.Context(), userID, request.Email, request.Name, request.Role)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid invite request",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to invite team member",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *TeamHandler) UpdateMember(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var request transfer.TeamUpdateRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err := h.s.UpdateRole(c.Context(), userID, request.ID, request.Role)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team member doesn't exist",
			})
		}
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid role",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to update team member",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	userID := GetUserID(c)
	memberID := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userID, int64(memberID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team member doesn't exist",
			})
		}
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid member id",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove team member",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
