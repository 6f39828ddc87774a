package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/hibiken/asynq"
)

func (q *Queue) HandleInviteEmailTask(ctx context.Context, task *asynq.Task) error {
	var payload InviteEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	inviteURL := fmt.Sprintf("%s/invite/%s", q.frontendURL, payload.InviteToken)

	if err := q.m.SendTeamInvite(ctx, payload.Email, payload.Name, payload.OwnerName, inviteURL); err != nil {
		log.Printf("Error sending invite email to %s: %v", payload.Email, err)
		return err
	}

	return nil
}

func (q *Queue) HandleUsageRecordTask(ctx context.Context, task *asynq.Task) error {
	var payload UsageRecordPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	record := &models.UsageRecord{
		UserID:           payload.UserID,
		Model:            payload.Model,
		PromptTokens:     payload.PromptTokens,
		CompletionTokens: payload.CompletionTokens,
	}

	if _, err := q.ur.Create(ctx, record); err != nil {
		log.Printf("Error saving usage record for user %d: %v", payload.UserID, err)
		return err
	}

	return nil
}
