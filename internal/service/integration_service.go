package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/flowpost/flowpost/internal/repository"
)

var integrationProviders = map[string]bool{
	"slack":   true,
	"zapier":  true,
	"webhook": true,
}

type IntegrationService interface {
	List(ctx context.Context, userID int64) ([]*models.Integration, error)
	Create(ctx context.Context, userID int64, provider, config string) error
	Remove(ctx context.Context, userID, integrationID int64) error
}

type integrationService struct {
	ir repository.IntegrationRepository
}

func NewIntegrationService(ir repository.IntegrationRepository) IntegrationService {
	return &integrationService{
		ir: ir,
	}
}

func (s *integrationService) List(ctx context.Context, userID int64) ([]*models.Integration, error) {
	integrations, err := s.ir.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting integrations")
	}
	return integrations, nil
}

func (s *integrationService) Create(ctx context.Context, userID int64, provider, config string) error {
	if !integrationProviders[provider] {
		slog.Info("unknown integration provider", "provider", provider)
		return ErrInvalidInput
	}

	integration := &models.Integration{
		UserID:   userID,
		Provider: provider,
		Config:   config,
	}

	_, err := s.ir.Create(ctx, integration)
	if err != nil {
		return fmt.Errorf("Error saving integration")
	}
	return nil
}

func (s *integrationService) Remove(ctx context.Context, userID, integrationID int64) error {
	var err error

	if userID == 0 || integrationID == 0 {
		err = errors.New("UserID or IntegrationID is not valid")
		slog.Info(err.Error())
		return ErrInvalidInput
	}

	isValid, err := s.ir.CheckByUserID(ctx, integrationID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info("integration doesn't exist for user")
		return ErrNotFound
	}

	err = s.ir.Remove(ctx, integrationID)
	if err != nil {
		return fmt.Errorf("Error removing integration")
	}
	return nil
}
