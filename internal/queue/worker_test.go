package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	invites []string
	urls    []string
	err     error
}

func (f *fakeMailer) SendTeamInvite(ctx context.Context, email, name, ownerName, inviteURL string) error {
	if f.err != nil {
		return f.err
	}
	f.invites = append(f.invites, email)
	f.urls = append(f.urls, inviteURL)
	return nil
}

func (f *fakeMailer) SendNotification(ctx context.Context, email, subject, body string) error {
	return nil
}

type fakeUsageRepo struct {
	records []*models.UsageRecord
}

func (f *fakeUsageRepo) Create(ctx context.Context, record *models.UsageRecord) (int64, error) {
	f.records = append(f.records, record)
	return int64(len(f.records)), nil
}

func (f *fakeUsageRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.UsageRecord, error) {
	return f.records, nil
}

func TestHandleInviteEmailTask(t *testing.T) {
	m := &fakeMailer{}
	q := NewQueue(&fakeUsageRepo{}, m, "http://localhost:5173")

	payload, err := json.Marshal(InviteEmailPayload{
		Email:       "teammate@example.com",
		Name:        "Teammate",
		OwnerName:   "Owner",
		InviteToken: "tok123",
	})
	require.NoError(t, err)

	err = q.HandleInviteEmailTask(context.Background(), asynq.NewTask(TaskTypeInviteEmail, payload))
	require.NoError(t, err)

	require.Len(t, m.invites, 1)
	assert.Equal(t, "teammate@example.com", m.invites[0])
	assert.Equal(t, "http://localhost:5173/invite/tok123", m.urls[0])
}

func TestHandleInviteEmailTaskBadPayload(t *testing.T) {
	q := NewQueue(&fakeUsageRepo{}, &fakeMailer{}, "http://localhost:5173")

	err := q.HandleInviteEmailTask(context.Background(), asynq.NewTask(TaskTypeInviteEmail, []byte("not json")))
	assert.Error(t, err)
}

func TestHandleUsageRecordTask(t *testing.T) {
	ur := &fakeUsageRepo{}
	q := NewQueue(ur, &fakeMailer{}, "http://localhost:5173")

	payload, err := json.Marshal(UsageRecordPayload{
		UserID:           7,
		Model:            "gpt-4o-mini",
		PromptTokens:     120,
		CompletionTokens: 48,
	})
	require.NoError(t, err)

	err = q.HandleUsageRecordTask(context.Background(), asynq.NewTask(TaskTypeUsageRecord, payload))
	require.NoError(t, err)

	require.Len(t, ur.records, 1)
	assert.Equal(t, int64(7), ur.records[0].UserID)
	assert.Equal(t, int64(120), ur.records[0].PromptTokens)
}
