package oauthflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FlowTTL bounds how long an initiated flow stays redeemable.
const FlowTTL = 10 * time.Minute

// PendingFlow is the ephemeral record written at initiation and consumed
// exactly once by the matching callback. One record exists per
// (user, platform); re-initiating overwrites it, so only the most recent
// state validates.
type PendingFlow struct {
	State        string    `json:"state"`
	CodeVerifier string    `json:"code_verifier,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Store interface {
	Save(ctx context.Context, userID int64, platform string, flow *PendingFlow) error
	// Take atomically reads and deletes the pending flow. Returns nil, nil
	// when no live flow exists.
	Take(ctx context.Context, userID int64, platform string) (*PendingFlow, error)
	Delete(ctx context.Context, userID int64, platform string) error
}

func flowKey(userID int64, platform string) string {
	return fmt.Sprintf("oauth:pending:%d:%s", userID, platform)
}

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Save(ctx context.Context, userID int64, platform string, flow *PendingFlow) error {
	payload, err := json.Marshal(flow)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	err = s.rdb.Set(ctx, flowKey(userID, platform), payload, FlowTTL).Err()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *redisStore) Take(ctx context.Context, userID int64, platform string) (*PendingFlow, error) {
	payload, err := s.rdb.GetDel(ctx, flowKey(userID, platform)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	var flow PendingFlow
	if err := json.Unmarshal([]byte(payload), &flow); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &flow, nil
}

func (s *redisStore) Delete(ctx context.Context, userID int64, platform string) error {
	return s.rdb.Del(ctx, flowKey(userID, platform)).Err()
}

type memoryEntry struct {
	flow      PendingFlow
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore is the in-process Store used by tests.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (s *memoryStore) Save(ctx context.Context, userID int64, platform string, flow *PendingFlow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[flowKey(userID, platform)] = memoryEntry{
		flow:      *flow,
		expiresAt: time.Now().Add(FlowTTL),
	}
	return nil
}

func (s *memoryStore) Take(ctx context.Context, userID int64, platform string) (*PendingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := flowKey(userID, platform)
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	delete(s.entries, key)

	if time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	flow := entry.flow
	return &flow, nil
}

func (s *memoryStore) Delete(ctx context.Context, userID int64, platform string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, flowKey(userID, platform))
	return nil
}
