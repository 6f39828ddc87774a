package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/models"
	"github.com/flowpost/flowpost/internal/queue"
	"github.com/flowpost/flowpost/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const maxTeamMembers = 10

type TeamService interface {
	List(ctx context.Context, ownerID int64) ([]*models.TeamMember, error)
	Invite(ctx context.Context, ownerID int64, email, name, role string) error
	UpdateRole(ctx context.Context, ownerID, memberID int64, role string) error
	Remove(ctx context.Context, ownerID, memberID int64) error
}

type teamService struct {
	cfg    config.Config
	tm     repository.TeamMemberRepository
	u      repository.UserRepository
	client queue.Enqueuer
}

func NewTeamService(
	cfg config.Config,
	tm repository.TeamMemberRepository,
	u repository.UserRepository,
	client queue.Enqueuer) TeamService {
	return &teamService{
		cfg:    cfg,
		tm:     tm,
		u:      u,
		client: client,
	}
}

func validRole(role string) bool {
	switch role {
	case models.TeamRoleAdmin, models.TeamRoleEditor, models.TeamRoleViewer:
		return true
	}
	return false
}

func (s *teamService) List(ctx context.Context, ownerID int64) ([]*models.TeamMember, error) {
	members, err := s.tm.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Error getting team members")
	}
	return members, nil
}

func (s *teamService) Invite(ctx context.Context, ownerID int64, email, name, role string) error {
	var err error

	if email == "" {
		slog.Info("invite email is empty")
		return ErrInvalidInput
	}

	if !validRole(role) {
		slog.Info("invalid team role", "role", role)
		return ErrInvalidInput
	}

	members, err := s.tm.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return err
	}

	if len(members) >= maxTeamMembers {
		err = errors.New("Team member limit reached.")
		slog.Info(err.Error())
		return ErrInvalidInput
	}

	inviteToken, err := gonanoid.New(21)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("Error generating invite token")
	}

	member := &models.TeamMember{
		OwnerID:     ownerID,
		Email:       email,
		Name:        name,
		Role:        role,
		Status:      models.TeamStatusInvited,
		InviteToken: inviteToken,
	}

	_, err = s.tm.Create(ctx, member)
	if err != nil {
		return fmt.Errorf("Error saving team member")
	}

	owner, isExist, err := s.u.GetByID(ctx, ownerID)
	ownerName := ""
	if err == nil && isExist {
		ownerName = owner.Name
	}

	payload := queue.InviteEmailPayload{
		Email:       email,
		Name:        name,
		OwnerName:   ownerName,
		InviteToken: inviteToken,
	}
	if err := queue.EnqueueInviteEmail(s.client, payload); err != nil {
		// The member row exists; delivery is retried by asynq, so a failed
		// enqueue is logged rather than rolling back the invite.
		slog.Info(err.Error())
	}

	return nil
}

func (s *teamService) UpdateRole(ctx context.Context, ownerID, memberID int64, role string) error {
	if !validRole(role) {
		slog.Info("invalid team role", "role", role)
		return ErrInvalidInput
	}

	isValid, err := s.tm.CheckByOwnerID(ctx, memberID, ownerID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info("team member doesn't exist for owner")
		return ErrNotFound
	}

	err = s.tm.UpdateRole(ctx, memberID, role)
	if err != nil {
		return fmt.Errorf("Error updating team member")
	}
	return nil
}

func (s *teamService) Remove(ctx context.Context, ownerID, memberID int64) error {
	var err error

	if ownerID == 0 || memberID == 0 {
		err = errors.New("OwnerID or MemberID is not valid")
		slog.Info(err.Error())
		return ErrInvalidInput
	}

	isValid, err := s.tm.CheckByOwnerID(ctx, memberID, ownerID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info("team member doesn't exist for owner")
		return ErrNotFound
	}

	err = s.tm.Remove(ctx, memberID)
	if err != nil {
		return fmt.Errorf("Error removing team member")
	}
	return nil
}
