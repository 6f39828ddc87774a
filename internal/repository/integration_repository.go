package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpost/flowpost/internal/models"
)

type IntegrationRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]*models.Integration, error)
	Create(ctx context.Context, integration *models.Integration) (int64, error)
	CheckByUserID(ctx context.Context, integrationID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type integrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Integration, error) {
	query := `SELECT id, user_id, provider, config, is_enabled, created_at
		FROM integrations WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var integrations []*models.Integration
	for rows.Next() {
		var i models.Integration
		err := rows.Scan(&i.ID, &i.UserID, &i.Provider, &i.Config, &i.IsEnabled, &i.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		integrations = append(integrations, &i)
	}
	return integrations, nil
}

func (r *integrationRepository) Create(ctx context.Context, integration *models.Integration) (int64, error) {
	query := `INSERT INTO integrations (user_id, provider, config, is_enabled)
		VALUES ($1, $2, $3, TRUE) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, integration.UserID, integration.Provider,
		integration.Config).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *integrationRepository) CheckByUserID(ctx context.Context, integrationID, userID int64) (bool, error) {
	query := "SELECT 1 FROM integrations WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, integrationID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *integrationRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM integrations WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
