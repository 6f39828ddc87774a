package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpost/flowpost/internal/models"
)

type NotificationRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.NotificationSettings, bool, error)
	Upsert(ctx context.Context, settings *models.NotificationSettings) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID int64) (*models.NotificationSettings, bool, error) {
	query := `SELECT id, user_id, email_enabled, post_published, token_expiry_alerts,
		weekly_digest, billing_alerts, updated_at
		FROM notification_settings WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var s models.NotificationSettings
	err := row.Scan(&s.ID, &s.UserID, &s.EmailEnabled, &s.PostPublished,
		&s.TokenExpiryAlerts, &s.WeeklyDigest, &s.BillingAlerts, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &s, true, nil
}

func (r *notificationRepository) Upsert(ctx context.Context, settings *models.NotificationSettings) error {
	query := `
		INSERT INTO notification_settings (user_id, email_enabled, post_published,
			token_expiry_alerts, weekly_digest, billing_alerts)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			post_published = EXCLUDED.post_published,
			token_expiry_alerts = EXCLUDED.token_expiry_alerts,
			weekly_digest = EXCLUDED.weekly_digest,
			billing_alerts = EXCLUDED.billing_alerts,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, settings.UserID, settings.EmailEnabled,
		settings.PostPublished, settings.TokenExpiryAlerts, settings.WeeklyDigest,
		settings.BillingAlerts)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
