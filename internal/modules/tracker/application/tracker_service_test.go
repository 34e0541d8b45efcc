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

	"github.com/captainhq/captain-backend/internal/modules/tracker/domain"
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

// memoryRepo is an in-memory ApplicationRepository for service tests.
type memoryRepo struct {
	apps    []domain.Application
	failAll error
}

func (r *memoryRepo) Create(ctx context.Context, app *domain.Application) error {
	if r.failAll != nil {
		return r.failAll
	}
	r.apps = append(r.apps, *app)
	return nil
}

func (r *memoryRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Application, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []domain.Application
	for _, app := range r.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string, userID uuid.UUID) (*domain.Application, error) {
	for i := range r.apps {
		if r.apps[i].ID == id && r.apps[i].UserID == userID {
			app := r.apps[i]
			return &app, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *memoryRepo) Update(ctx context.Context, app *domain.Application) error {
	for i := range r.apps {
		if r.apps[i].ID == app.ID && r.apps[i].UserID == app.UserID {
			r.apps[i] = *app
			return nil
		}
	}
	return domain.ErrApplicationNotFound
}

func (r *memoryRepo) Delete(ctx context.Context, id string, userID uuid.UUID) error {
	for i := range r.apps {
		if r.apps[i].ID == id && r.apps[i].UserID == userID {
			r.apps = append(r.apps[:i], r.apps[i+1:]...)
			return nil
		}
	}
	return domain.ErrApplicationNotFound
}

func (r *memoryRepo) ReplaceAll(ctx context.Context, userID uuid.UUID, apps []domain.Application) error {
	if r.failAll != nil {
		return r.failAll
	}
	kept := r.apps[:0]
	for _, app := range r.apps {
		if app.UserID != userID {
			kept = append(kept, app)
		}
	}
	r.apps = append(kept, apps...)
	return nil
}

func (r *memoryRepo) InsertMany(ctx context.Context, userID uuid.UUID, apps []domain.Application) error {
	if r.failAll != nil {
		return r.failAll
	}
	r.apps = append(r.apps, apps...)
	return nil
}

func newTrackerService(repo domain.ApplicationRepository, local *localstore.Store) *TrackerService {
	svc := NewTrackerService(repo, local)
	svc.now = func() time.Time { return importNow }
	return svc
}

func TestTrackerService_Create_Defaults(t *testing.T) {
	repo := &memoryRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTrackerService(repo, local)
	userID := uuid.New()

	app := &domain.Application{Company: "Acme", Position: "Engineer"}
	require.NoError(t, svc.Create(context.Background(), userID, app))

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, domain.StatusBookmarked, app.Status)
	assert.Equal(t, "2026-03-01", app.AppliedDate)
	assert.Equal(t, userID, app.UserID)
	assert.NotNil(t, app.Tags)
	assert.NotNil(t, app.Keywords)

	// counter bumped and collection mirrored
	n, err := local.GetCounter(context.Background(), userID, localstore.KeyNewEntries)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var mirrored []domain.Application
	require.NoError(t, local.Get(context.Background(), userID, localstore.KeyJobApplications, &mirrored))
	require.Len(t, mirrored, 1)
	assert.Equal(t, "Acme", mirrored[0].Company)
}

func TestTrackerService_Import_Merge(t *testing.T) {
	repo := &memoryRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTrackerService(repo, local)
	userID := uuid.New()

	require.NoError(t, svc.Create(context.Background(), userID, &domain.Application{Company: "Acme", Position: "Engineer"}))

	data := `{"jobApplications":[
		{"company":"Acme","position":"Engineer"},
		{"company":"Globex","position":"Analyst"}
	]}`

	result, err := svc.Import(context.Background(), userID, []byte(data), StrategyMerge)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	apps, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	// the counter counts the create plus the one imported record
	n, err := local.GetCounter(context.Background(), userID, localstore.KeyNewEntries)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTrackerService_Import_Replace(t *testing.T) {
	repo := &memoryRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTrackerService(repo, local)
	userID := uuid.New()

	require.NoError(t, svc.Create(context.Background(), userID, &domain.Application{Company: "Old", Position: "Gone"}))

	result, err := svc.Import(context.Background(), userID, []byte(`[{"company":"New","position":"Kept"}]`), StrategyReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)

	apps, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "New", apps[0].Company)
}

func TestTrackerService_Import_MalformedLeavesStorageUntouched(t *testing.T) {
	repo := &memoryRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTrackerService(repo, local)
	userID := uuid.New()

	require.NoError(t, svc.Create(context.Background(), userID, &domain.Application{Company: "Acme", Position: "Engineer"}))

	_, err := svc.Import(context.Background(), userID, []byte(`{"jobApplications": [}`), StrategyReplace)
	assert.ErrorIs(t, err, domain.ErrMalformedJSON)

	apps, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestTrackerService_Import_RepoFailurePropagates(t *testing.T) {
	repo := &memoryRepo{failAll: errors.New("db down")}
	local := localstore.NewStore(newFakeRedis())
	svc := newTrackerService(repo, local)

	_, err := svc.Import(context.Background(), uuid.New(), []byte(`[{"company":"A","position":"p"}]`), StrategyMerge)
	assert.EqualError(t, err, "db down")
}

func TestTrackerService_Export_RoundTripsThroughImport(t *testing.T) {
	repo := &memoryRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTrackerService(repo, local)
	userID := uuid.New()

	require.NoError(t, svc.Create(context.Background(), userID, &domain.Application{Company: "Acme", Position: "Engineer"}))

	export, err := svc.Export(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, export.JobApplications, 1)
	assert.NotEmpty(t, export.ExportedAt)
}

func TestTrackerService_Export_EmptyCollection(t *testing.T) {
	svc := newTrackerService(&memoryRepo{}, localstore.NewStore(newFakeRedis()))

	export, err := svc.Export(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, export.JobApplications)
	assert.Empty(t, export.JobApplications)
}

func TestTrackerService_SetResume(t *testing.T) {
	repo := &memoryRepo{}
	local := localstore.NewStore(newFakeRedis())
	svc := newTrackerService(repo, local)
	userID := uuid.New()

	app := &domain.Application{Company: "Acme", Position: "Engineer"}
	require.NoError(t, svc.Create(context.Background(), userID, app))

	require.NoError(t, svc.SetResume(context.Background(), app.ID, userID, "http://files/resume.pdf"))

	got, err := svc.Get(context.Background(), app.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "http://files/resume.pdf", got.Resume)
}
