package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpost/flowpost/internal/models"
)

type UsageRepository interface {
	Create(ctx context.Context, record *models.UsageRecord) (int64, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.UsageRecord, error)
}

type usageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(ctx context.Context, record *models.UsageRecord) (int64, error) {
	query := `INSERT INTO usage_records (user_id, model, prompt_tokens, completion_tokens)
		VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, record.UserID, record.Model,
		record.PromptTokens, record.CompletionTokens).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *usageRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.UsageRecord, error) {
	query := `SELECT id, user_id, model, prompt_tokens, completion_tokens, created_at
		FROM usage_records WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.UsageRecord
	for rows.Next() {
		var u models.UsageRecord
		err := rows.Scan(&u.ID, &u.UserID, &u.Model, &u.PromptTokens, &u.CompletionTokens, &u.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &u)
	}
	return records, nil
}
