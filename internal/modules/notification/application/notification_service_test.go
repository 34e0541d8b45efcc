package application

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captainhq/captain-backend/internal/modules/notification/domain"
	ws "github.com/captainhq/captain-backend/internal/modules/notification/infrastructure/websocket"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	return f.IncrBy(ctx, key, 1)
}

func (f *fakeRedis) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	current, _ := strconv.ParseInt(f.data[key], 10, 64)
	current += value
	f.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (f *fakeRedis) StrLen(ctx context.Context, key string) *redis.IntCmd {
	return redis.NewIntResult(int64(len(f.data[key])), nil)
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

// memoryNotificationRepo backs service tests without a database.
type memoryNotificationRepo struct {
	notifications []domain.Notification
	createErr     error
}

func (r *memoryNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.notifications = append([]domain.Notification{*n}, r.notifications...)
	return nil
}

func (r *memoryNotificationRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryNotificationRepo) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID && r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *memoryNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memoryNotificationRepo) Delete(ctx context.Context, notificationID, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID && r.notifications[i].UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *memoryNotificationRepo) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *memoryNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type settingsRepoMock struct {
	getFn    func(context.Context, uuid.UUID) (*domain.Settings, error)
	upsertFn func(context.Context, *domain.Settings) error
}

func (m settingsRepoMock) Get(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	return m.getFn(ctx, userID)
}

func (m settingsRepoMock) Upsert(ctx context.Context, settings *domain.Settings) error {
	return m.upsertFn(ctx, settings)
}

func settingsFixed(settings *domain.Settings) settingsRepoMock {
	return settingsRepoMock{
		getFn:    func(context.Context, uuid.UUID) (*domain.Settings, error) { return settings, nil },
		upsertFn: func(context.Context, *domain.Settings) error { return nil },
	}
}

func newTestService(t *testing.T, repo domain.NotificationRepository, settings domain.SettingsRepository, local *localstore.Store) *NotificationService {
	t.Helper()
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return NewNotificationService(repo, settings, hub, local)
}

func TestNotificationService_Create(t *testing.T) {
	t.Run("stores and mirrors", func(t *testing.T) {
		repo := &memoryNotificationRepo{}
		local := localstore.NewStore(newFakeRedis())
		svc := newTestService(t, repo, settingsFixed(nil), local)
		userID := uuid.New()

		id, err := svc.Create(context.Background(), userID, domain.Draft{
			Type:    domain.NotificationTypeAchievement,
			Title:   "First Steps",
			Message: "You added your first application",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		require.Len(t, repo.notifications, 1)
		stored := repo.notifications[0]
		assert.Equal(t, userID, stored.UserID)
		assert.False(t, stored.IsRead)
		assert.False(t, stored.CreatedAt.IsZero())

		var mirrored []domain.Notification
		require.NoError(t, local.Get(context.Background(), userID, localstore.KeyNotifications, &mirrored))
		require.Len(t, mirrored, 1)
		assert.Equal(t, "First Steps", mirrored[0].Title)
	})

	t.Run("unknown type", func(t *testing.T) {
		svc := newTestService(t, &memoryNotificationRepo{}, settingsFixed(nil), localstore.NewStore(newFakeRedis()))

		_, err := svc.Create(context.Background(), uuid.New(), domain.Draft{Type: "carrier_pigeon", Title: "t"})
		assert.ErrorIs(t, err, domain.ErrUnknownType)
	})

	t.Run("master switch off suppresses silently", func(t *testing.T) {
		repo := &memoryNotificationRepo{}
		settings := domain.DefaultSettings(uuid.New())
		settings.Enabled = false
		svc := newTestService(t, repo, settingsFixed(&settings), localstore.NewStore(newFakeRedis()))

		id, err := svc.Create(context.Background(), settings.UserID, domain.Draft{
			Type:  domain.NotificationTypeAchievement,
			Title: "t",
		})
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, id)
		assert.Empty(t, repo.notifications)
	})

	t.Run("repo error", func(t *testing.T) {
		repo := &memoryNotificationRepo{createErr: errors.New("db error")}
		svc := newTestService(t, repo, settingsFixed(nil), localstore.NewStore(newFakeRedis()))

		_, err := svc.Create(context.Background(), uuid.New(), domain.Draft{
			Type:  domain.NotificationTypeSystem,
			Title: "t",
		})
		require.EqualError(t, err, "db error")
	})
}

func TestNotificationService_CategoryGates(t *testing.T) {
	userID := uuid.New()

	cases := []struct {
		name    string
		mutate  func(*domain.Settings)
		draft   domain.NotificationType
		created bool
	}{
		{"new events gated", func(s *domain.Settings) { s.NotifyOnNewEvents = false }, domain.NotificationTypeNewEvent, false},
		{"event updates gated", func(s *domain.Settings) { s.NotifyOnEventUpdates = false }, domain.NotificationTypeEventUpdate, false},
		{"reminders gated", func(s *domain.Settings) { s.NotifyOnReminders = false }, domain.NotificationTypeEventReminder, false},
		{"system gated", func(s *domain.Settings) { s.NotifyOnSystem = false }, domain.NotificationTypeSystem, false},
		{"achievements have no gate", func(s *domain.Settings) {
			s.NotifyOnNewEvents = false
			s.NotifyOnEventUpdates = false
			s.NotifyOnReminders = false
			s.NotifyOnSystem = false
		}, domain.NotificationTypeAchievement, true},
		{"level ups have no gate", func(s *domain.Settings) { s.NotifyOnSystem = false }, domain.NotificationTypeLevelUp, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memoryNotificationRepo{}
			settings := domain.DefaultSettings(userID)
			tc.mutate(&settings)
			svc := newTestService(t, repo, settingsFixed(&settings), localstore.NewStore(newFakeRedis()))

			id, err := svc.Create(context.Background(), userID, domain.Draft{Type: tc.draft, Title: "t"})
			require.NoError(t, err)
			if tc.created {
				assert.NotEqual(t, uuid.Nil, id)
				assert.Len(t, repo.notifications, 1)
			} else {
				assert.Equal(t, uuid.Nil, id)
				assert.Empty(t, repo.notifications)
			}
		})
	}
}

func TestNotificationService_CreateTest(t *testing.T) {
	t.Run("ignores category gates", func(t *testing.T) {
		repo := &memoryNotificationRepo{}
		settings := domain.DefaultSettings(uuid.New())
		settings.NotifyOnSystem = false
		svc := newTestService(t, repo, settingsFixed(&settings), localstore.NewStore(newFakeRedis()))

		id, err := svc.CreateTest(context.Background(), settings.UserID)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("master switch still applies", func(t *testing.T) {
		settings := domain.DefaultSettings(uuid.New())
		settings.Enabled = false
		svc := newTestService(t, &memoryNotificationRepo{}, settingsFixed(&settings), localstore.NewStore(newFakeRedis()))

		id, err := svc.CreateTest(context.Background(), settings.UserID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, id)
	})
}

func TestNotificationService_ReadAndDeleteAreIdempotent(t *testing.T) {
	repo := &memoryNotificationRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTestService(t, repo, settingsFixed(nil), local)
	userID := uuid.New()

	id, err := svc.Create(context.Background(), userID, domain.Draft{Type: domain.NotificationTypeSystem, Title: "t"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), id, userID))
	require.NoError(t, svc.MarkRead(context.Background(), uuid.New(), userID)) // absent id is a no-op

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, svc.Delete(context.Background(), id, userID))
	require.NoError(t, svc.Delete(context.Background(), id, userID)) // second delete is a no-op
}

func TestNotificationService_DeleteAllClearsMirror(t *testing.T) {
	repo := &memoryNotificationRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTestService(t, repo, settingsFixed(nil), local)
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, domain.Draft{Type: domain.NotificationTypeSystem, Title: "t"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAll(context.Background(), userID))

	var mirrored []domain.Notification
	err = local.Get(context.Background(), userID, localstore.KeyNotifications, &mirrored)
	assert.ErrorIs(t, err, localstore.ErrKeyNotFound)
}

func TestNotificationService_GetSettings_DefaultsForNewUsers(t *testing.T) {
	svc := newTestService(t, &memoryNotificationRepo{}, settingsFixed(nil), localstore.NewStore(newFakeRedis()))
	userID := uuid.New()

	settings, err := svc.GetSettings(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, settings.UserID)
	assert.True(t, settings.Enabled)
	assert.True(t, settings.InAppNotifications)
	assert.False(t, settings.BrowserNotifications)
	assert.Equal(t, domain.PermissionDefault, settings.BrowserPermission)
}

func TestNotificationService_RecordPermission(t *testing.T) {
	t.Run("denied downgrades browser delivery", func(t *testing.T) {
		var saved *domain.Settings
		settings := domain.DefaultSettings(uuid.New())
		settings.BrowserNotifications = true
		repo := settingsRepoMock{
			getFn:    func(context.Context, uuid.UUID) (*domain.Settings, error) { return &settings, nil },
			upsertFn: func(_ context.Context, s *domain.Settings) error { saved = s; return nil },
		}
		svc := newTestService(t, &memoryNotificationRepo{}, repo, localstore.NewStore(newFakeRedis()))

		got, err := svc.RecordPermission(context.Background(), settings.UserID, domain.PermissionDenied)
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionDenied, got.BrowserPermission)
		assert.False(t, got.BrowserNotifications)
		require.NotNil(t, saved)
		assert.False(t, saved.BrowserNotifications)
	})

	t.Run("granted keeps browser preference", func(t *testing.T) {
		settings := domain.DefaultSettings(uuid.New())
		settings.BrowserNotifications = true
		svc := newTestService(t, &memoryNotificationRepo{}, settingsFixed(&settings), localstore.NewStore(newFakeRedis()))

		got, err := svc.RecordPermission(context.Background(), settings.UserID, domain.PermissionGranted)
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionGranted, got.BrowserPermission)
		assert.True(t, got.BrowserNotifications)
	})

	t.Run("invalid state", func(t *testing.T) {
		svc := newTestService(t, &memoryNotificationRepo{}, settingsFixed(nil), localstore.NewStore(newFakeRedis()))

		_, err := svc.RecordPermission(context.Background(), uuid.New(), "maybe")
		assert.Error(t, err)
	})
}

func TestNotificationService_UpdateSettings_MirrorsToLocal(t *testing.T) {
	local := localstore.NewStore(newFakeRedis())
	settings := domain.DefaultSettings(uuid.New())
	svc := newTestService(t, &memoryNotificationRepo{}, settingsFixed(&settings), local)

	settings.NotifyOnNewEvents = false
	require.NoError(t, svc.UpdateSettings(context.Background(), &settings))
	assert.False(t, settings.UpdatedAt.IsZero())

	var mirrored domain.Settings
	require.NoError(t, local.Get(context.Background(), settings.UserID, localstore.KeyNotificationSettings, &mirrored))
	assert.False(t, mirrored.NotifyOnNewEvents)
}
