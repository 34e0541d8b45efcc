package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Well-known blob keys mirrored from the web client's local storage.
const (
	KeyNotifications        = "notifications"
	KeyNotificationSettings = "notificationSettings"
	KeyJobApplications      = "jobApplications"
	KeyAchievements         = "achievements"
	KeyUserLevel            = "userLevel"
	KeyAnalytics            = "analytics"
	KeyLastBackupDate       = "lastBackupDate"
	KeyActivities           = "activities"
	KeyAppState             = "captainAppState"
	KeyNewEntries           = "newEntriesSinceBackup"
)

// SchemaVersion tags every stored blob so a future format change can be
// detected instead of silently breaking old data.
const SchemaVersion = 1

var ErrKeyNotFound = errors.New("localstore: key not found")

// envelope wraps every stored value with a schema version.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Commands is the subset of redis operations the store needs.
// *redis.Client satisfies it; tests provide canned command results.
type Commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
	StrLen(ctx context.Context, key string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Store is the local persistence adapter: string-keyed JSON blobs per user,
// write-through semantics, no expiry.
type Store struct {
	client Commands
}

func NewStore(client Commands) *Store {
	return &Store{client: client}
}

func blobKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf("local:%s:%s", userID, key)
}

// Set serializes value as JSON and stores it under the user's key.
func (s *Store) Set(ctx context.Context, userID uuid.UUID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}

	blob, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("localstore: encode envelope for %s: %w", key, err)
	}

	if err := s.client.Set(ctx, blobKey(userID, key), blob, 0).Err(); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	return nil
}

// Get decodes the user's blob into dest. Returns ErrKeyNotFound when the
// key was never written.
func (s *Store) Get(ctx context.Context, userID uuid.UUID, key string, dest interface{}) error {
	raw, err := s.client.Get(ctx, blobKey(userID, key)).Bytes()
	if err == redis.Nil {
		return ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("localstore: read %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("localstore: decode envelope for %s: %w", key, err)
	}
	if env.Version != SchemaVersion {
		return fmt.Errorf("localstore: unsupported schema version %d for %s", env.Version, key)
	}

	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return nil
}

// Clear removes the user's blob for the given key.
func (s *Store) Clear(ctx context.Context, userID uuid.UUID, key string) error {
	if err := s.client.Del(ctx, blobKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("localstore: clear %s: %w", key, err)
	}
	return nil
}

// IncrCounter atomically bumps a numeric key and returns the new value.
// Used for the new-entries-since-backup counter.
func (s *Store) IncrCounter(ctx context.Context, userID uuid.UUID, key string) (int64, error) {
	n, err := s.client.Incr(ctx, blobKey(userID, key)).Result()
	if err != nil {
		return 0, fmt.Errorf("localstore: incr %s: %w", key, err)
	}
	return n, nil
}

// AddToCounter bumps a counter by delta and returns the new value.
func (s *Store) AddToCounter(ctx context.Context, userID uuid.UUID, key string, delta int64) (int64, error) {
	n, err := s.client.IncrBy(ctx, blobKey(userID, key), delta).Result()
	if err != nil {
		return 0, fmt.Errorf("localstore: incrby %s: %w", key, err)
	}
	return n, nil
}

// GetCounter reads a counter written by IncrCounter. Missing keys read as 0.
func (s *Store) GetCounter(ctx context.Context, userID uuid.UUID, key string) (int64, error) {
	n, err := s.client.Get(ctx, blobKey(userID, key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("localstore: read counter %s: %w", key, err)
	}
	return n, nil
}

// Size returns the stored byte length of the user's blob, 0 when absent.
func (s *Store) Size(ctx context.Context, userID uuid.UUID, key string) (int64, error) {
	n, err := s.client.StrLen(ctx, blobKey(userID, key)).Result()
	if err != nil {
		return 0, fmt.Errorf("localstore: size %s: %w", key, err)
	}
	return n, nil
}

// Available probes whether the backing store is reachable.
func (s *Store) Available(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}
