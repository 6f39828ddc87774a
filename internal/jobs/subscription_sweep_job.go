package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowpost/flowpost/internal/repository"
)

type SubscriptionSweepJob struct {
	sr repository.SubscriptionRepository
}

func NewSubscriptionSweepJob(sr repository.SubscriptionRepository) *SubscriptionSweepJob {
	return &SubscriptionSweepJob{
		sr: sr,
	}
}

// Sweep marks active subscriptions whose period already ended as expired.
// The webhook normally does this, but missed events would otherwise leave
// stale access behind.
func (c *SubscriptionSweepJob) Sweep() {
	ctx := context.Background()

	expired, err := c.sr.MarkExpired(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	if expired > 0 {
		slog.Info("expired stale subscriptions", "count", expired)
	}
}
