package adapters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/feature/auth/domain/entity"
)

// setupStateTestDB prepares an in-memory SQLite database for state testing.
func setupStateTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&AuthStateModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func aliceState(clientID string, updatedAt time.Time) *entity.AuthState {
	return &entity.AuthState{
		ClientID: clientID,
		User: entity.User{
			ID:        "doc-1",
			AccountID: "acc-1",
			Name:      "Alice Doe",
			Username:  "alice",
			Email:     "alice@example.com",
			ImageURL:  "https://cloud.example/v1/avatars/initials?name=Alice+Doe",
		},
		IsAuthenticated: true,
		FallbackCookies: `{"a_session_p":"secret"}`,
		UpdatedAt:       updatedAt,
	}
}

func TestNewStateGorm(t *testing.T) {
	db := setupStateTestDB(t)

	repo := NewStateGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestStateGorm_SaveAndLoad(t *testing.T) {
	t.Parallel()

	db := setupStateTestDB(t)
	repo := NewStateGorm(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Save(ctx, aliceState("client-1", now)))

	got, err := repo.Load(ctx, "client-1")

	require.NoError(t, err)
	assert.Equal(t, "client-1", got.ClientID)
	assert.Equal(t, "alice", got.User.Username)
	assert.Equal(t, "acc-1", got.User.AccountID)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, `{"a_session_p":"secret"}`, got.FallbackCookies)
	assert.True(t, now.Equal(got.UpdatedAt.UTC()))
}

func TestStateGorm_SaveReplaces(t *testing.T) {
	t.Parallel()

	db := setupStateTestDB(t)
	repo := NewStateGorm(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, aliceState("client-1", time.Now())))

	reset := entity.NewAuthState("client-1")
	reset.FallbackCookies = entity.EmptyFallbackMarker
	reset.UpdatedAt = time.Now()
	require.NoError(t, repo.Save(ctx, reset))

	got, err := repo.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, got.IsAuthenticated)
	assert.True(t, got.User.IsEmpty())
	assert.Equal(t, entity.EmptyFallbackMarker, got.FallbackCookies)

	var count int64
	db.Model(&AuthStateModel{}).Count(&count)
	assert.Equal(t, int64(1), count, "save must upsert on client id")
}

func TestStateGorm_SaveSetsUpdatedAt(t *testing.T) {
	t.Parallel()

	repo := NewStateGorm(setupStateTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, entity.NewAuthState("client-1")))

	got, err := repo.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestStateGorm_LoadNotFound(t *testing.T) {
	t.Parallel()

	repo := NewStateGorm(setupStateTestDB(t))

	got, err := repo.Load(context.Background(), "missing")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, authctx.ErrStateNotFound)
}

func TestStateGorm_Delete(t *testing.T) {
	t.Parallel()

	repo := NewStateGorm(setupStateTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, aliceState("client-1", time.Now())))

	require.NoError(t, repo.Delete(ctx, "client-1"))

	_, err := repo.Load(ctx, "client-1")
	assert.ErrorIs(t, err, authctx.ErrStateNotFound)
	assert.NoError(t, repo.Delete(ctx, "client-1"), "deleting a missing state is not an error")
}

func TestStateGorm_DeleteStale(t *testing.T) {
	t.Parallel()

	repo := NewStateGorm(setupStateTestDB(t))
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.Save(ctx, aliceState("old", now.Add(-48*time.Hour))))
	require.NoError(t, repo.Save(ctx, aliceState("fresh", now)))

	n, err := repo.DeleteStale(ctx, now.Add(-24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.Load(ctx, "old")
	assert.ErrorIs(t, err, authctx.ErrStateNotFound)
	_, err = repo.Load(ctx, "fresh")
	assert.NoError(t, err)
}

// errorRecorder is a gorm logger that keeps every query error it is given.
type errorRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *errorRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *errorRecorder) Info(context.Context, string, ...interface{}) {}

func (r *errorRecorder) Warn(context.Context, string, ...interface{}) {}

func (r *errorRecorder) Error(context.Context, string, ...interface{}) {}

func (r *errorRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// TestStateGorm_LoadNotFound_LogsNothing は未登録クライアントの読み込みが
// エラーとしてログ出力されないことを検証します。
func TestStateGorm_LoadNotFound_LogsNothing(t *testing.T) {
	rec := &errorRecorder{}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: rec})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&AuthStateModel{}))
	repo := NewStateGorm(db)

	got, err := repo.Load(context.Background(), "first-visit")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, authctx.ErrStateNotFound)
	assert.Empty(t, rec.errs, "a missing row is the normal first-visit path")
}
