package queue

import (
	"github.com/flowpost/flowpost/internal/mailer"
	"github.com/flowpost/flowpost/internal/repository"
	"github.com/hibiken/asynq"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Queue struct {
	ur          repository.UsageRepository
	m           mailer.Mailer
	frontendURL string
}

func NewQueue(
	ur repository.UsageRepository,
	m mailer.Mailer,
	frontendURL string) *Queue {
	return &Queue{
		ur:          ur,
		m:           m,
		frontendURL: frontendURL,
	}
}

const (
	TaskTypeInviteEmail = "email:team_invite"
	TaskTypeUsageRecord = "usage:record"
)

type InviteEmailPayload struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	OwnerName   string `json:"owner_name"`
	InviteToken string `json:"invite_token"`
}

type UsageRecordPayload struct {
	UserID           int64  `json:"user_id"`
	Model            string `json:"model"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
}
