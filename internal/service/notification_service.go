package service

import (
	"context"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/flowpost/flowpost/internal/repository"
	"github.com/flowpost/flowpost/internal/transfer"
)

type NotificationService interface {
	GetSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID int64, update *transfer.NotificationUpdate) error
}

type notificationService struct {
	nr repository.NotificationRepository
}

func NewNotificationService(nr repository.NotificationRepository) NotificationService {
	return &notificationService{
		nr: nr,
	}
}

// GetSettings returns stored preferences, or the defaults when the user has
// never saved any.
func (s *notificationService) GetSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	settings, isExist, err := s.nr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		return &models.NotificationSettings{
			UserID:            userID,
			EmailEnabled:      true,
			PostPublished:     true,
			TokenExpiryAlerts: true,
			WeeklyDigest:      false,
			BillingAlerts:     true,
		}, nil
	}

	return settings, nil
}

func (s *notificationService) UpdateSettings(ctx context.Context, userID int64, update *transfer.NotificationUpdate) error {
	settings := &models.NotificationSettings{
		UserID:            userID,
		EmailEnabled:      update.EmailEnabled,
		PostPublished:     update.PostPublished,
		TokenExpiryAlerts: update.TokenExpiryAlerts,
		WeeklyDigest:      update.WeeklyDigest,
		BillingAlerts:     update.BillingAlerts,
	}

	err := s.nr.Upsert(ctx, settings)
	if err != nil {
		return err
	}
	return nil
}
