package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpost/flowpost/internal/models"
)

type ConnectionRepository interface {
	// Upsert inserts the connection or, when (user_id, platform, account_id)
	// already exists, overwrites its token material and metadata.
	Upsert(ctx context.Context, c *models.Connection) (int64, error)
	ListInfoByUserID(ctx context.Context, userID int64) ([]*models.Connection, error)
	CheckByUserID(ctx context.Context, connectionID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type connectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Upsert(ctx context.Context, c *models.Connection) (int64, error) {
	query := `
		INSERT INTO connections(
			user_id,
			platform,
			account_id,
			account_name,
			account_username,
			profile_picture_url,
			access_token,
			refresh_token,
			token_expires_at,
			is_active,
			can_post,
			can_read,
			can_delete
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, $11, $12)
		ON CONFLICT (user_id, platform, account_id) DO UPDATE SET
			account_name = EXCLUDED.account_name,
			account_username = EXCLUDED.account_username,
			profile_picture_url = EXCLUDED.profile_picture_url,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			is_active = TRUE,
			can_post = EXCLUDED.can_post,
			can_read = EXCLUDED.can_read,
			can_delete = EXCLUDED.can_delete,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		c.UserID,
		c.Platform,
		c.AccountID,
		c.AccountName,
		c.AccountUsername,
		c.ProfilePicture,
		c.AccessToken,
		c.RefreshToken,
		c.TokenExpiresAt,
		c.CanPost,
		c.CanRead,
		c.CanDelete,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *connectionRepository) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.Connection, error) {
	query := `
		SELECT id, platform, account_name, account_username, profile_picture_url,
			is_active, can_post, can_read, can_delete
		FROM connections WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var connections []*models.Connection
	for rows.Next() {
		var c models.Connection
		err := rows.Scan(&c.ID, &c.Platform, &c.AccountName, &c.AccountUsername,
			&c.ProfilePicture, &c.IsActive, &c.CanPost, &c.CanRead, &c.CanDelete)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		connections = append(connections, &c)
	}
	return connections, nil
}

func (r *connectionRepository) CheckByUserID(ctx context.Context, connectionID, userID int64) (bool, error) {
	query := "SELECT 1 FROM connections WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, connectionID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *connectionRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM connections WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
