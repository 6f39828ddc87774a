package service

import (
	"context"
	"strings"
	"testing"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeyCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates prefixed key", func(t *testing.T) {
		repo := &fakeApiKeyRepo{}
		s := NewApiKeyService(repo)

		require.NoError(t, s.Create(ctx, 1))

		require.Len(t, repo.keys, 1)
		assert.True(t, strings.HasPrefix(repo.keys[0].ApiKey, "fp_"))
		assert.Equal(t, int64(1), repo.keys[0].UserID)
	})

	t.Run("key limit", func(t *testing.T) {
		repo := &fakeApiKeyRepo{}
		for i := 0; i < maxApiKeysPerUser; i++ {
			repo.keys = append(repo.keys, &models.ApiKey{ID: int64(i + 1), UserID: 1})
		}
		s := NewApiKeyService(repo)

		err := s.Create(ctx, 1)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Len(t, repo.keys, maxApiKeysPerUser)
	})
}

func TestApiKeyGetUserID(t *testing.T) {
	ctx := context.Background()

	repo := &fakeApiKeyRepo{
		keys: []*models.ApiKey{{ID: 1, UserID: 42, ApiKey: "fp_known"}},
	}
	s := NewApiKeyService(repo)

	t.Run("known key", func(t *testing.T) {
		userID, err := s.GetUserID(ctx, "fp_known")
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := s.GetUserID(ctx, "fp_unknown")
		assert.Error(t, err)
	})
}

func TestApiKeyRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes owned key", func(t *testing.T) {
		repo := &fakeApiKeyRepo{checkOK: true}
		s := NewApiKeyService(repo)

		require.NoError(t, s.RemoveAPIKey(ctx, 1, 3))
		assert.Equal(t, []int64{3}, repo.removed)
	})

	t.Run("key of another user", func(t *testing.T) {
		s := NewApiKeyService(&fakeApiKeyRepo{checkOK: false})
		err := s.RemoveAPIKey(ctx, 1, 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("zero ids", func(t *testing.T) {
		s := NewApiKeyService(&fakeApiKeyRepo{})
		err := s.RemoveAPIKey(ctx, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
