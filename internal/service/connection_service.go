package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/flowpost/flowpost/internal/repository"
)

type ConnectionService interface {
	List(ctx context.Context, userID int64) ([]*models.Connection, error)
	Delete(ctx context.Context, userID, connectionID int64) error
}

type connectionService struct {
	cr repository.ConnectionRepository
}

func NewConnectionService(cr repository.ConnectionRepository) ConnectionService {
	return &connectionService{
		cr: cr,
	}
}

func (s *connectionService) List(ctx context.Context, userID int64) ([]*models.Connection, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	connections, err := s.cr.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting connections")
	}

	return connections, nil
}

func (s *connectionService) Delete(ctx context.Context, userID, connectionID int64) error {
	var err error

	if userID == 0 || connectionID == 0 {
		err = errors.New("UserID or ConnectionID is not valid")
		slog.Info(err.Error())
		return ErrInvalidInput
	}

	isValid, err := s.cr.CheckByUserID(ctx, connectionID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info("connection doesn't exist for user")
		return ErrNotFound
	}

	err = s.cr.Remove(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("Error removing connection")
	}

	return nil
}
