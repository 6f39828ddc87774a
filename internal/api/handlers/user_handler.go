package handlers

import (
	"errors"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	cfg config.Config
	s   service.UserService
}

func NewUserHandler(cfg config.Config, service service.UserService) *UserHandler {
	return &UserHandler{cfg: cfg, s: service}
}

func (h *UserHandler) UserInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	user, err := h.s.GetUserInfo(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User doesn't exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get user",
		})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.RemoveUser(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to delete user",
		})
	}

	c.ClearCookie(h.cfg.CookieName)
	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(h.cfg.CookieName)
	return c.SendStatus(fiber.StatusOK)
}
