package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"snapgram/internal/app/config"
	authadapters "snapgram/internal/feature/auth/adapters"
	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/platform/session"
)

func TestNewStateRepository_PrefersRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewStateRepository(rdb, nil, time.Hour)

	require.IsType(t, &session.StateRedis{}, repo)
	require.NoError(t, repo.Save(context.Background(), entity.NewAuthState("client-1")))
	assert.True(t, mr.Exists("authstate:client-1"))
	assert.Equal(t, time.Hour, mr.TTL("authstate:client-1"))
}

func TestNewStateRepository_FallsBackToSQL(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authadapters.AuthStateModel{}))

	repo := NewStateRepository(nil, db, time.Hour)

	_, isPruner := repo.(authctx.StalePruner)
	assert.True(t, isPruner, "the SQL store prunes stale states itself")
	require.NoError(t, repo.Save(context.Background(), entity.NewAuthState("client-1")))
	_, err = repo.Load(context.Background(), "client-1")
	assert.NoError(t, err)
}

// TestNewAuthUsecase_GetCurrentUser はDIで組み立てたユースケースがAppwriteの各エンドポイントを呼ぶことを検証します。
func TestNewAuthUsecase_GetCurrentUser(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "proj-1", r.Header.Get("X-Appwrite-Project"))
		switch r.URL.Path {
		case "/v1/account":
			_, _ = w.Write([]byte(`{"$id":"acc-1","name":"Alice Doe","email":"alice@example.com"}`))
		case "/v1/databases/db-1/collections/users/documents":
			_, _ = w.Write([]byte(`{"total":1,"documents":[{"$id":"doc-1","accountId":"acc-1","username":"alice"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	cfg := config.Appwrite{URL: server.URL + "/v1", ProjectID: "proj-1", DatabaseID: "db-1", UserCollectionID: "users", Timeout: time.Second}
	uc := NewAuthUsecase(NewAppwriteClient(cfg), cfg)

	user, err := uc.GetCurrentUser(context.Background(), entity.NewCredentials(`{"a":"b"}`))

	require.NoError(t, err)
	assert.Equal(t, "doc-1", user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestStoreFunc(t *testing.T) {
	t.Parallel()

	cfg := config.Appwrite{URL: "http://127.0.0.1:1/v1", ProjectID: "p", Timeout: time.Second}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authadapters.AuthStateModel{}))
	provider := authctx.NewProvider(NewAuthUsecase(NewAppwriteClient(cfg), cfg), NewStateRepository(nil, db, 0), time.Minute)
	stores := StoreFunc(provider)

	st, err := stores(context.Background(), "client-1")
	require.NoError(t, err)
	assert.False(t, st.Snapshot().IsAuthenticated)

	st, err = stores(context.Background(), "")
	assert.Error(t, err)
	assert.Nil(t, st, "a failed lookup must not yield a typed nil store")
}
