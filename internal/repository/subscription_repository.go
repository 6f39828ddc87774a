package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/flowpost/flowpost/internal/models"
)

type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error)
	Create(ctx context.Context, subscription *models.Subscription) (int64, error)
	UpdateSubscription(ctx context.Context, subscription *models.Subscription) error
	MarkExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error) {
	var s models.Subscription
	query := `SELECT subscription_id, customer_id, plan, status, subscription_end_date
		FROM subscriptions WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.SubscriptionID,
		&s.CustomerID, &s.Plan, &s.Status, &s.SubscriptionEndDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	s.UserID = userID
	return &s, true, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) (int64, error) {
	query := `INSERT INTO subscriptions (user_id, subscription_id, customer_id, plan, status, subscription_end_date)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, subscription.UserID, subscription.SubscriptionID,
		subscription.CustomerID, subscription.Plan, subscription.Status,
		subscription.SubscriptionEndDate).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *subscriptionRepository) UpdateSubscription(ctx context.Context, subscription *models.Subscription) error {
	query := `
		UPDATE subscriptions
		SET subscription_id = $1,
			customer_id = $2,
			plan = $3,
			status = $4,
			subscription_end_date = $5,
			updated_at = $6
		WHERE user_id = $7
	`
	_, err := r.db.ExecContext(ctx, query, subscription.SubscriptionID,
		subscription.CustomerID, subscription.Plan, subscription.Status,
		subscription.SubscriptionEndDate, time.Now(), subscription.UserID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *subscriptionRepository) MarkExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'expired',
			updated_at = CURRENT_TIMESTAMP
		WHERE status = 'active' AND subscription_end_date < $1
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return affected, nil
}
