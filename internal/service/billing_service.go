package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/models"
	"github.com/flowpost/flowpost/internal/repository"
	"github.com/flowpost/flowpost/internal/transfer"
)

type BillingService interface {
	CreateCheckout(ctx context.Context, userID int64, plan string) (string, error)
	CreatePortal(ctx context.Context, userID int64) (string, error)
	GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
	// VerifyWebhookSignature checks the hex HMAC-SHA256 of the raw body
	// against the shared webhook secret.
	VerifyWebhookSignature(body []byte, signature string) bool
	HandleSubscription(ctx context.Context, payload *transfer.SubscriptionEvent) error
}

type billingService struct {
	cfg config.Config
	u   repository.UserRepository
	s   repository.SubscriptionRepository
}

func NewBillingService(cfg config.Config, u repository.UserRepository, s repository.SubscriptionRepository) BillingService {
	return &billingService{
		cfg: cfg,
		u:   u,
		s:   s,
	}
}

func (s *billingService) productForPlan(plan string) string {
	switch plan {
	case "basic":
		return s.cfg.BillingProductBasic
	case "pro":
		return s.cfg.BillingProductPro
	}
	return ""
}

func (s *billingService) CreateCheckout(ctx context.Context, userID int64, plan string) (string, error) {
	productID := s.productForPlan(plan)
	if productID == "" {
		slog.Info("unknown billing plan", "plan", plan)
		return "", ErrInvalidInput
	}

	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !isExist {
		return "", ErrNotFound
	}

	request := transfer.CheckoutSessionRequest{
		ProductID:  productID,
		SuccessURL: s.cfg.FrontendURL + "/dashboard/billing?checkout=success",
		Customer:   transfer.CheckoutCustomer{Email: user.Email},
		Metadata: map[string]string{
			"user_id": fmt.Sprintf("%d", userID),
			"plan":    plan,
		},
	}

	var response transfer.CheckoutSessionResponse
	if err := s.post(ctx, "/v1/checkouts", request, &response); err != nil {
		return "", err
	}

	if response.CheckoutURL == "" {
		slog.Info("checkout session has no URL")
		return "", ErrUpstream
	}

	return response.CheckoutURL, nil
}

func (s *billingService) CreatePortal(ctx context.Context, userID int64) (string, error) {
	subscription, isExist, err := s.s.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !isExist || subscription.CustomerID == "" {
		return "", ErrNotFound
	}

	request := transfer.PortalSessionRequest{CustomerID: subscription.CustomerID}

	var response transfer.PortalSessionResponse
	if err := s.post(ctx, "/v1/customers/billing", request, &response); err != nil {
		return "", err
	}

	if response.PortalURL == "" {
		slog.Info("portal session has no URL")
		return "", ErrUpstream
	}

	return response.PortalURL, nil
}

func (s *billingService) GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	subscription, isExist, err := s.s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrNotFound
	}
	return subscription, nil
}

func (s *billingService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.cfg.BillingWebhookSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.cfg.BillingWebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *billingService) HandleSubscription(ctx context.Context, payload *transfer.SubscriptionEvent) error {
	switch payload.EventType {
	case "subscription.paid":
		customerEmail := payload.Object.Customer.Email

		user, isExist, err := s.u.GetByEmail(ctx, customerEmail)
		if err != nil {
			return fmt.Errorf("fetching user by email failed: %w", err)
		}

		var userID int64
		if !isExist {
			newUser := &models.User{
				Email: customerEmail,
			}
			userID, err = s.u.Create(ctx, nil, newUser)
			if err != nil {
				return err
			}
		} else {
			userID = user.ID
		}

		subscriptionInfo := &models.Subscription{
			UserID:              userID,
			SubscriptionID:      payload.Object.ID,
			CustomerID:          payload.Object.Customer.ID,
			Plan:                payload.Object.Metadata.Plan,
			Status:              payload.Object.Status,
			SubscriptionEndDate: payload.Object.CurrentPeriodEndDate,
		}

		_, hasSubscription, err := s.s.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if hasSubscription {
			err = s.s.UpdateSubscription(ctx, subscriptionInfo)
		} else {
			_, err = s.s.Create(ctx, subscriptionInfo)
		}
		if err != nil {
			// The processor-side charge already succeeded; there is no
			// compensating transaction, only the surfaced failure.
			return err
		}

	case "subscription.canceled", "subscription.expired":
		customerEmail := payload.Object.Customer.Email

		user, isExist, err := s.u.GetByEmail(ctx, customerEmail)
		if err != nil {
			return fmt.Errorf("fetching user by email failed: %w", err)
		}
		if !isExist {
			slog.Info("subscription event for unknown customer", "email", customerEmail)
			return nil
		}

		subscriptionInfo := &models.Subscription{
			UserID:              user.ID,
			SubscriptionID:      payload.Object.ID,
			CustomerID:          payload.Object.Customer.ID,
			Plan:                payload.Object.Metadata.Plan,
			Status:              payload.Object.Status,
			SubscriptionEndDate: payload.Object.CurrentPeriodEndDate,
		}

		if err := s.s.UpdateSubscription(ctx, subscriptionInfo); err != nil {
			return err
		}
	}

	return nil
}

func (s *billingService) post(ctx context.Context, path string, request, response interface{}) error {
	payload, err := json.Marshal(request)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BillingAPIURL+path, bytes.NewReader(payload))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.cfg.BillingAPIKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Info(fmt.Sprintf("billing API returned status %d", resp.StatusCode))
		return ErrUpstream
	}

	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		slog.Info(err.Error())
		return ErrUpstream
	}

	return nil
}
