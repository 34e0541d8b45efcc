package localstore

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
)

type fakeCommands struct {
	data map[string]string
	err  error
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{data: map[string]string{}}
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

func (f *fakeCommands) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCommands) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = asString(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCommands) Incr(ctx context.Context, key string) *redis.IntCmd {
	return f.IncrBy(ctx, key, 1)
}

func (f *fakeCommands) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	current, _ := strconv.ParseInt(f.data[key], 10, 64)
	current += value
	f.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (f *fakeCommands) StrLen(ctx context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	return redis.NewIntResult(int64(len(f.data[key])), nil)
}

func (f *fakeCommands) Ping(ctx context.Context) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	return redis.NewStatusResult("PONG", nil)
}

func TestStore_SetAndGet(t *testing.T) {
	store := NewStore(newFakeCommands())
	userID := uuid.New()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Set(context.Background(), userID, KeyJobApplications, payload{Name: "a", Count: 3}))

	var got payload
	require.NoError(t, store.Get(context.Background(), userID, KeyJobApplications, &got))
	assert.Equal(t, payload{Name: "a", Count: 3}, got)
}

func TestStore_GetMissingKey(t *testing.T) {
	store := NewStore(newFakeCommands())

	var dest map[string]string
	err := store.Get(context.Background(), uuid.New(), KeyNotifications, &dest)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStore_KeysAreNamespacedPerUser(t *testing.T) {
	store := NewStore(newFakeCommands())
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.Set(context.Background(), alice, KeyAppState, "alice-state"))

	var dest string
	err := store.Get(context.Background(), bob, KeyAppState, &dest)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Get(context.Background(), alice, KeyAppState, &dest))
	assert.Equal(t, "alice-state", dest)
}

func TestStore_SchemaVersionMismatch(t *testing.T) {
	fake := newFakeCommands()
	store := NewStore(fake)
	userID := uuid.New()

	fake.data["local:"+userID.String()+":"+KeyNotifications] = `{"version":99,"data":"[]"}`

	var dest []string
	err := store.Get(context.Background(), userID, KeyNotifications, &dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(newFakeCommands())
	userID := uuid.New()

	require.NoError(t, store.Set(context.Background(), userID, KeyLastBackupDate, "2026-01-01"))
	require.NoError(t, store.Clear(context.Background(), userID, KeyLastBackupDate))

	var dest string
	err := store.Get(context.Background(), userID, KeyLastBackupDate, &dest)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStore_Counters(t *testing.T) {
	store := NewStore(newFakeCommands())
	userID := uuid.New()

	n, err := store.GetCounter(context.Background(), userID, KeyNewEntries)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = store.IncrCounter(context.Background(), userID, KeyNewEntries)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.AddToCounter(context.Background(), userID, KeyNewEntries, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	n, err = store.GetCounter(context.Background(), userID, KeyNewEntries)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}

func TestStore_Size(t *testing.T) {
	store := NewStore(newFakeCommands())
	userID := uuid.New()

	n, err := store.Size(context.Background(), userID, KeyJobApplications)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, store.Set(context.Background(), userID, KeyJobApplications, []int{1, 2, 3}))

	n, err = store.Size(context.Background(), userID, KeyJobApplications)
	require.NoError(t, err)
	assert.Greater(t, n, int64(0))
}

func TestStore_Available(t *testing.T) {
	fake := newFakeCommands()
	store := NewStore(fake)
	assert.True(t, store.Available(context.Background()))

	fake.err = errors.New("connection refused")
	assert.False(t, store.Available(context.Background()))
}
