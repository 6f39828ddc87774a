package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/flowpost/flowpost/internal/models"
	"github.com/hibiken/asynq"
)

type fakeConnectionRepo struct {
	upserted  []*models.Connection
	upsertErr error
	checkOK   bool
	removed   []int64
}

func (f *fakeConnectionRepo) Upsert(ctx context.Context, c *models.Connection) (int64, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	f.upserted = append(f.upserted, c)
	return int64(len(f.upserted)), nil
}

func (f *fakeConnectionRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.Connection, error) {
	return f.upserted, nil
}

func (f *fakeConnectionRepo) CheckByUserID(ctx context.Context, connectionID, userID int64) (bool, error) {
	return f.checkOK, nil
}

func (f *fakeConnectionRepo) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

type fakeUserRepo struct {
	users      map[int64]*models.User
	byEmail    map[string]*models.User
	nextID     int64
	createdIDs []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[int64]*models.User),
		byEmail: make(map[string]*models.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) add(u *models.User) {
	f.users[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	u, ok := f.users[id]
	return u, ok, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	u, ok := f.byEmail[email]
	return u, ok, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	user.ID = f.nextID
	f.nextID++
	f.add(user)
	f.createdIDs = append(f.createdIDs, user.ID)
	return user.ID, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) Remove(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeSubscriptionRepo struct {
	subscription *models.Subscription
	created      []*models.Subscription
	updated      []*models.Subscription
}

func (f *fakeSubscriptionRepo) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error) {
	if f.subscription == nil || f.subscription.UserID != userID {
		return nil, false, nil
	}
	return f.subscription, true, nil
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, subscription *models.Subscription) (int64, error) {
	f.created = append(f.created, subscription)
	return int64(len(f.created)), nil
}

func (f *fakeSubscriptionRepo) UpdateSubscription(ctx context.Context, subscription *models.Subscription) error {
	f.updated = append(f.updated, subscription)
	return nil
}

func (f *fakeSubscriptionRepo) MarkExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeTeamMemberRepo struct {
	members []*models.TeamMember
	checkOK bool
	updates map[int64]string
	removed []int64
}

func (f *fakeTeamMemberRepo) ListByOwnerID(ctx context.Context, ownerID int64) ([]*models.TeamMember, error) {
	return f.members, nil
}

func (f *fakeTeamMemberRepo) CheckByOwnerID(ctx context.Context, memberID, ownerID int64) (bool, error) {
	return f.checkOK, nil
}

func (f *fakeTeamMemberRepo) Create(ctx context.Context, member *models.TeamMember) (int64, error) {
	member.ID = int64(len(f.members) + 1)
	f.members = append(f.members, member)
	return member.ID, nil
}

func (f *fakeTeamMemberRepo) UpdateRole(ctx context.Context, id int64, role string) error {
	if f.updates == nil {
		f.updates = make(map[int64]string)
	}
	f.updates[id] = role
	return nil
}

func (f *fakeTeamMemberRepo) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

type fakeApiKeyRepo struct {
	keys    []*models.ApiKey
	checkOK bool
	removed []int64
}

func (f *fakeApiKeyRepo) GetByKey(ctx context.Context, apiKey string) (*int64, bool, error) {
	for _, k := range f.keys {
		if k.ApiKey == apiKey {
			id := k.UserID
			return &id, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeApiKeyRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	return f.keys, nil
}

func (f *fakeApiKeyRepo) Create(ctx context.Context, apiKey *models.ApiKey) (int64, error) {
	apiKey.ID = int64(len(f.keys) + 1)
	f.keys = append(f.keys, apiKey)
	return apiKey.ID, nil
}

func (f *fakeApiKeyRepo) CheckByUserID(ctx context.Context, keyID, userID int64) (bool, error) {
	return f.checkOK, nil
}

func (f *fakeApiKeyRepo) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

type fakeNotificationRepo struct {
	settings *models.NotificationSettings
	upserted []*models.NotificationSettings
}

func (f *fakeNotificationRepo) GetByUserID(ctx context.Context, userID int64) (*models.NotificationSettings, bool, error) {
	if f.settings == nil {
		return nil, false, nil
	}
	return f.settings, true, nil
}

func (f *fakeNotificationRepo) Upsert(ctx context.Context, settings *models.NotificationSettings) error {
	f.upserted = append(f.upserted, settings)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}
