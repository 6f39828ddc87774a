package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func EnqueueInviteEmail(client Enqueuer, payload InviteEmailPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeInviteEmail, taskPayload)

	_, err = client.Enqueue(task, asynq.MaxRetry(3))
	if err != nil {
		return err
	}

	log.Printf("Invite email task scheduled for %s", payload.Email)
	return nil
}

func EnqueueUsageRecord(client Enqueuer, payload UsageRecordPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeUsageRecord, taskPayload)

	_, err = client.Enqueue(task)
	if err != nil {
		return err
	}

	return nil
}
