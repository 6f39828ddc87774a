package handlers

import (
	"errors"
	"fmt"
	"strconv"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/service"
	"github.com/flowpost/flowpost/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type ConnectHandler struct {
	cs  service.ConnectService
	cfg config.Config
}

func NewConnectHandler(cfg config.Config, cs service.ConnectService) *ConnectHandler {
	return &ConnectHandler{
		cs:  cs,
		cfg: cfg,
	}
}

// Initiate runs behind the auth middleware; the user is known here.
func (h *ConnectHandler) Initiate(c *fiber.Ctx) error {
	userID := GetUserID(c)

	authURL, err := h.cs.AuthorizationURL(c.Context(), userID, c.Params("platform"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlatform) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Platform is not supported",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to start connection",
		})
	}

	return c.Redirect(authURL)
}

// Callback is not behind the middleware: the browser arrives mid-navigation
// from the provider, so every outcome is a redirect to the connections page.
func (h *ConnectHandler) Callback(c *fiber.Ctx) error {
	platform := c.Params("platform")
	code := c.Query("code")
	state := c.Query("state")

	if c.Query("error") != "" || code == "" || state == "" {
		return h.redirectError(c, service.FlowErrMissingParams)
	}

	tokenString := c.Cookies(h.cfg.CookieName)
	if tokenString == "" {
		return h.redirectError(c, service.FlowErrUnauthorized)
	}

	claims, err := utils.ValidateToken(h.cfg.SecretKey, tokenString)
	if err != nil {
		return h.redirectError(c, service.FlowErrUnauthorized)
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return h.redirectError(c, service.FlowErrUnauthorized)
	}

	if ferr := h.cs.CompleteCallback(c.Context(), userID, platform, code, state); ferr != nil {
		return h.redirectError(c, ferr.Code)
	}

	redirectURL := fmt.Sprintf("%s/dashboard/connections?connected=%s", h.cfg.FrontendURL, platform)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *ConnectHandler) redirectError(c *fiber.Ctx, code string) error {
	redirectURL := fmt.Sprintf("%s/dashboard/connections?error=%s", h.cfg.FrontendURL, code)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
