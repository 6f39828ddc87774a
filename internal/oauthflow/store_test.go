package oauthflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("take consumes the flow", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Save(ctx, 1, "twitter", &PendingFlow{State: "abc", CreatedAt: time.Now()}))

		flow, err := s.Take(ctx, 1, "twitter")
		require.NoError(t, err)
		require.NotNil(t, flow)
		assert.Equal(t, "abc", flow.State)

		flow, err = s.Take(ctx, 1, "twitter")
		require.NoError(t, err)
		assert.Nil(t, flow)
	})

	t.Run("missing flow", func(t *testing.T) {
		s := NewMemoryStore()
		flow, err := s.Take(ctx, 1, "twitter")
		require.NoError(t, err)
		assert.Nil(t, flow)
	})

	t.Run("save overwrites a previous flow", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Save(ctx, 1, "twitter", &PendingFlow{State: "first"}))
		require.NoError(t, s.Save(ctx, 1, "twitter", &PendingFlow{State: "second"}))

		flow, err := s.Take(ctx, 1, "twitter")
		require.NoError(t, err)
		require.NotNil(t, flow)
		assert.Equal(t, "second", flow.State)
	})

	t.Run("flows are scoped per user and platform", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Save(ctx, 1, "twitter", &PendingFlow{State: "t"}))
		require.NoError(t, s.Save(ctx, 1, "linkedin", &PendingFlow{State: "l"}))
		require.NoError(t, s.Save(ctx, 2, "twitter", &PendingFlow{State: "other"}))

		flow, err := s.Take(ctx, 1, "twitter")
		require.NoError(t, err)
		require.NotNil(t, flow)
		assert.Equal(t, "t", flow.State)

		flow, err = s.Take(ctx, 1, "linkedin")
		require.NoError(t, err)
		require.NotNil(t, flow)
		assert.Equal(t, "l", flow.State)

		flow, err = s.Take(ctx, 2, "twitter")
		require.NoError(t, err)
		require.NotNil(t, flow)
		assert.Equal(t, "other", flow.State)
	})

	t.Run("expired flow is gone", func(t *testing.T) {
		s := &memoryStore{entries: map[string]memoryEntry{
			flowKey(1, "twitter"): {
				flow:      PendingFlow{State: "stale"},
				expiresAt: time.Now().Add(-time.Second),
			},
		}}

		flow, err := s.Take(ctx, 1, "twitter")
		require.NoError(t, err)
		assert.Nil(t, flow)
	})

	t.Run("delete", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Save(ctx, 1, "twitter", &PendingFlow{State: "abc"}))
		require.NoError(t, s.Delete(ctx, 1, "twitter"))

		flow, err := s.Take(ctx, 1, "twitter")
		require.NoError(t, err)
		assert.Nil(t, flow)
	})
}
