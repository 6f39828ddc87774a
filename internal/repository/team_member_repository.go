package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/flowpost/flowpost/internal/models"
)

type TeamMemberRepository interface {
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*models.TeamMember, error)
	CheckByOwnerID(ctx context.Context, memberID, ownerID int64) (bool, error)
	Create(ctx context.Context, member *models.TeamMember) (int64, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	Remove(ctx context.Context, id int64) error
}

type teamMemberRepository struct {
	db *sql.DB
}

func NewTeamMemberRepository(db *sql.DB) TeamMemberRepository {
	return &teamMemberRepository{db: db}
}

func (r *teamMemberRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*models.TeamMember, error) {
	query := `SELECT id, owner_id, email, name, role, status, created_at
		FROM team_members WHERE owner_id = $1`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var members []*models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		err := rows.Scan(&m.ID, &m.OwnerID, &m.Email, &m.Name, &m.Role, &m.Status, &m.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		members = append(members, &m)
	}
	return members, nil
}

func (r *teamMemberRepository) CheckByOwnerID(ctx context.Context, memberID, ownerID int64) (bool, error) {
	query := "SELECT 1 FROM team_members WHERE id = $1 AND owner_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, memberID, ownerID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *teamMemberRepository) Create(ctx context.Context, member *models.TeamMember) (int64, error) {
	query := `INSERT INTO team_members (owner_id, email, name, role, status, invite_token)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, member.OwnerID, member.Email, member.Name,
		member.Role, member.Status, member.InviteToken).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *teamMemberRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	query := `
		UPDATE team_members
		SET role = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, role, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *teamMemberRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM team_members WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
