package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifdomain "github.com/captainhq/captain-backend/internal/modules/notification/domain"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

type notifierMock struct {
	mu     sync.Mutex
	drafts []notifdomain.Draft
	users  []uuid.UUID
	sent   chan struct{}
}

func newNotifierMock() *notifierMock {
	return &notifierMock{sent: make(chan struct{}, 16)}
}

func (m *notifierMock) Create(ctx context.Context, userID uuid.UUID, draft notifdomain.Draft) (uuid.UUID, error) {
	m.mu.Lock()
	m.drafts = append(m.drafts, draft)
	m.users = append(m.users, userID)
	m.mu.Unlock()
	m.sent <- struct{}{}
	return uuid.New(), nil
}

func TestReminderScheduler_RunsImmediatelyOnStart(t *testing.T) {
	local := localstore.NewStore(newFakeRedis())
	userID := uuid.New()

	svc := NewBackupService(local, alwaysLocalOnly(userID))
	notifier := newNotifierMock()

	scheduler := NewReminderScheduler(svc, notifier, time.Hour)
	scheduler.Start()
	defer scheduler.Stop()

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reminder notification on start")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.drafts, 1)
	draft := notifier.drafts[0]
	assert.Equal(t, userID, notifier.users[0])
	assert.Equal(t, notifdomain.NotificationTypeSystem, draft.Type)
	require.NotNil(t, draft.ReferenceID)
	assert.Equal(t, "backup_reminder", *draft.ReferenceID)
	require.NotNil(t, draft.ReferenceType)
	assert.Equal(t, "backup", *draft.ReferenceType)
}

func TestReminderScheduler_SkipsUsersWithNothingDue(t *testing.T) {
	local := localstore.NewStore(newFakeRedis())
	userID := uuid.New()

	// backed up a moment ago, nothing new
	_, err := NewBackupService(local, alwaysLocalOnly(userID)).RecordBackup(context.Background(), userID)
	require.NoError(t, err)

	svc := NewBackupService(local, alwaysLocalOnly(userID))
	notifier := newNotifierMock()

	scheduler := NewReminderScheduler(svc, notifier, time.Hour)
	scheduler.Start()
	scheduler.Stop()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Empty(t, notifier.drafts)
}

func TestReminderScheduler_StopIsIdempotentAndWaits(t *testing.T) {
	local := localstore.NewStore(newFakeRedis())
	svc := NewBackupService(local, alwaysLocalOnly())
	notifier := newNotifierMock()

	scheduler := NewReminderScheduler(svc, notifier, time.Hour)
	scheduler.Start()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestReminderScheduler_DefaultsInterval(t *testing.T) {
	scheduler := NewReminderScheduler(nil, nil, 0)
	assert.Equal(t, 24*time.Hour, scheduler.interval)
}
