package service

import (
	"context"
	"fmt"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/flowpost/flowpost/internal/repository"
)

const usageListLimit = 50

type UsageService interface {
	List(ctx context.Context, userID int64) ([]*models.UsageRecord, error)
}

type usageService struct {
	ur repository.UsageRepository
}

func NewUsageService(ur repository.UsageRepository) UsageService {
	return &usageService{
		ur: ur,
	}
}

func (s *usageService) List(ctx context.Context, userID int64) ([]*models.UsageRecord, error) {
	records, err := s.ur.ListByUserID(ctx, userID, usageListLimit)
	if err != nil {
		return nil, fmt.Errorf("Error getting usage records")
	}
	return records, nil
}
