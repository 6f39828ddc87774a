package handlers

import (
	"bufio"
	"context"
	"errors"
	"log/slog"

	"github.com/flowpost/flowpost/internal/service"
	"github.com/flowpost/flowpost/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type GenerateHandler struct {
	s service.GenerateService
	u service.UsageService
}

func NewGenerateHandler(generate service.GenerateService, usage service.UsageService) *GenerateHandler {
	return &GenerateHandler{s: generate, u: usage}
}

func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var request transfer.GenerateRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	response, err := h.s.Generate(c.Context(), userID, &request)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Prompt is required",
			})
		}
		if errors.Is(err, service.ErrUpstream) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Generation provider is unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to generate content",
		})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *GenerateHandler) GenerateStream(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var request transfer.GenerateRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if request.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}

	c.Set("Content-Type", "text/plain; charset=utf-8")
	c.Set("Cache-Control", "no-cache")

	// The stream writer runs after this handler returns, so the request
	// context is gone by then.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		fw := &flushWriter{w: w}
		if err := h.s.GenerateStream(context.Background(), userID, &request, fw); err != nil {
			slog.Info(err.Error())
		}
	})

	return nil
}

func (h *GenerateHandler) ListUsage(c *fiber.Ctx) error {
	userID := GetUserID(c)

	records, err := h.u.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list usage",
		})
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

type flushWriter struct {
	w *bufio.Writer
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	return n, f.w.Flush()
}
