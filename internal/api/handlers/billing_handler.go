package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/flowpost/flowpost/internal/service"
	"github.com/flowpost/flowpost/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type BillingHandler struct {
	s service.BillingService
}

func NewBillingHandler(service service.BillingService) *BillingHandler {
	return &BillingHandler{s: service}
}

func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var request transfer.CheckoutRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	checkoutURL, err := h.s.CreateCheckout(c.Context(), userID, request.Plan)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown plan",
			})
		}
		if errors.Is(err, service.ErrUpstream) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Billing provider is unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create checkout session",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"checkout_url": checkoutURL,
	})
}

func (h *BillingHandler) CreatePortal(c *fiber.Ctx) error {
	userID := GetUserID(c)

	portalURL, err := h.s.CreatePortal(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active subscription",
			})
		}
		if errors.Is(err, service.ErrUpstream) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Billing provider is unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create portal session",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"portal_url": portalURL,
	})
}

func (h *BillingHandler) GetSubscription(c *fiber.Ctx) error {
	userID := GetUserID(c)

	subscription, err := h.s.GetSubscription(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No subscription",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get subscription",
		})
	}

	return c.Status(fiber.StatusOK).JSON(subscription)
}

// Webhook verifies the raw body signature before the payload is decoded.
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("webhook-signature")

	if !h.s.VerifyWebhookSignature(body, signature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid signature",
		})
	}

	var event transfer.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if err := h.s.HandleSubscription(c.Context(), &event); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to process event",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
