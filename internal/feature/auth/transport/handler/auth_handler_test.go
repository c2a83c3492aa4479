package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/feature/auth/forms"
	"snapgram/internal/feature/auth/usecase"
	jwtmw "snapgram/internal/platform/jwt"
	"snapgram/internal/shared/mutation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockStore is a mock implementation of the ClientStore interface.
type mockStore struct {
	CreateFunc  func(in entity.NewUser) (*entity.User, error)
	SignInFunc  func(in entity.SignInInput) (*entity.Session, error)
	CheckFunc   func() (bool, error)
	MountFunc   func() (string, error)
	SignOutFunc func() error

	snapshot   authctx.Snapshot
	busy       bool
	submitting bool
	hooks      *usecase.Hooks
}

func newMockStore() *mockStore {
	m := &mockStore{}
	m.hooks = &usecase.Hooks{
		CreateUserAccount: mutation.New(func(ctx context.Context, in entity.NewUser) (*entity.User, error) {
			if m.CreateFunc != nil {
				return m.CreateFunc(in)
			}
			return &entity.User{ID: "doc-1"}, nil
		}),
		SignInAccount: mutation.New(func(ctx context.Context, in entity.SignInInput) (*entity.Session, error) {
			if m.SignInFunc != nil {
				return m.SignInFunc(in)
			}
			return &entity.Session{ID: "sess-1"}, nil
		}),
		SignOutAccount: mutation.New(func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, nil
		}),
	}
	return m
}

func (m *mockStore) BeginSubmission() (func(), bool) {
	if m.busy || m.submitting {
		return nil, false
	}
	m.submitting = true
	return func() { m.submitting = false }, true
}

func (m *mockStore) Hooks() *usecase.Hooks { return m.hooks }

func (m *mockStore) CheckAuthUser(ctx context.Context) (bool, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc()
	}
	return true, nil
}

func (m *mockStore) Snapshot() authctx.Snapshot { return m.snapshot }

func (m *mockStore) Mount(ctx context.Context) (string, error) {
	if m.MountFunc != nil {
		return m.MountFunc()
	}
	return "", nil
}

func (m *mockStore) SignOut(ctx context.Context) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc()
	}
	return nil
}

// storeOf returns a StoreFunc that always resolves to st.
func storeOf(st ClientStore) StoreFunc {
	return func(ctx context.Context, clientID string) (ClientStore, error) { return st, nil }
}

func withClient(r *gin.Engine) *gin.Engine {
	r.Use(func(c *gin.Context) {
		c.Set(jwtmw.ContextClientID, "client-1")
		c.Next()
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var res gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return w, res
}

func TestAuthHandler_SignIn(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setup          func(m *mockStore)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:           "success: redirect home",
			requestBody:    gin.H{"email": "alice@example.com", "password": "secretpw"},
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"redirect": "/"},
		},
		{
			name:           "failure: short password",
			requestBody:    gin.H{"email": "alice@example.com", "password": "short"},
			expectedStatus: http.StatusBadRequest,
			expectedBody: gin.H{
				"error":  "invalid input",
				"fields": map[string]any{"password": "password should be at least 8 characters"},
			},
		},
		{
			name:        "failure: wrong credentials",
			requestBody: gin.H{"email": "alice@example.com", "password": "wrong-pass"},
			setup: func(m *mockStore) {
				m.SignInFunc = func(entity.SignInInput) (*entity.Session, error) { return nil, usecase.ErrInvalidCredentials }
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": forms.MsgSignInFailed},
		},
		{
			name:           "failure: busy",
			requestBody:    gin.H{"email": "alice@example.com", "password": "secretpw"},
			setup:          func(m *mockStore) { m.busy = true },
			expectedStatus: http.StatusConflict,
			expectedBody:   gin.H{"error": forms.MsgBusy},
		},
		{
			name:           "failure: malformed json",
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStore()
			if tt.setup != nil {
				tt.setup(st)
			}
			router := withClient(gin.New())
			router.POST("/api/sign-in", NewAuthHandler(storeOf(st)).SignIn)

			w, res := postJSON(t, router, "/api/sign-in", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, res)
		})
	}
}

func TestAuthHandler_SignUp(t *testing.T) {
	valid := gin.H{"name": "Alice Doe", "username": "alice", "email": "alice@example.com", "password": "secretpw"}

	tests := []struct {
		name           string
		requestBody    any
		setup          func(m *mockStore)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:           "success: redirect home",
			requestBody:    valid,
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"redirect": "/"},
		},
		{
			name:           "failure: short name",
			requestBody:    gin.H{"name": "Al", "username": "alice", "email": "alice@example.com", "password": "secretpw"},
			expectedStatus: http.StatusBadRequest,
			expectedBody: gin.H{
				"error":  "invalid input",
				"fields": map[string]any{"name": "name should be at least 5 characters"},
			},
		},
		{
			name:        "failure: email already registered",
			requestBody: valid,
			setup: func(m *mockStore) {
				m.CreateFunc = func(entity.NewUser) (*entity.User, error) { return nil, usecase.ErrEmailAlreadyExists }
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": forms.MsgSignUpFailed},
		},
		{
			name:        "failure: sign in after sign up",
			requestBody: valid,
			setup: func(m *mockStore) {
				m.SignInFunc = func(entity.SignInInput) (*entity.Session, error) { return nil, errors.New("unavailable") }
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": forms.MsgSignInFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStore()
			if tt.setup != nil {
				tt.setup(st)
			}
			router := withClient(gin.New())
			router.POST("/api/sign-up", NewAuthHandler(storeOf(st)).SignUp)

			w, res := postJSON(t, router, "/api/sign-up", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, res)
		})
	}
}

func TestAuthHandler_StoreFailure(t *testing.T) {
	router := withClient(gin.New())
	failing := func(ctx context.Context, clientID string) (ClientStore, error) {
		return nil, errors.New("redis down")
	}
	router.POST("/api/sign-in", NewAuthHandler(failing).SignIn)

	w, res := postJSON(t, router, "/api/sign-in", gin.H{"email": "alice@example.com", "password": "secretpw"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, gin.H{"error": "internal error"}, res)
}

func TestAuthHandler_SignOut(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(m *mockStore)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:           "success",
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"redirect": "/sign-in"},
		},
		{
			name:           "failure: backend error",
			setup:          func(m *mockStore) { m.SignOutFunc = func() error { return usecase.ErrSignOutFailed } },
			expectedStatus: http.StatusBadGateway,
			expectedBody:   gin.H{"error": "sign out failed"},
		},
		{
			name:           "failure: busy",
			setup:          func(m *mockStore) { m.busy = true },
			expectedStatus: http.StatusConflict,
			expectedBody:   gin.H{"error": forms.MsgBusy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStore()
			if tt.setup != nil {
				tt.setup(st)
			}
			router := withClient(gin.New())
			router.POST("/api/sign-out", NewAuthHandler(storeOf(st)).SignOut)

			w, res := postJSON(t, router, "/api/sign-out", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, res)
		})
	}
}

// TestAuthHandler_SignOut_HoldsSubmission は、サインアウト中は他の送信を受け付けず、
// 終了後に解放されることを検証します。
func TestAuthHandler_SignOut_HoldsSubmission(t *testing.T) {
	st := newMockStore()
	var refused bool
	st.SignOutFunc = func() error {
		_, ok := st.BeginSubmission()
		refused = !ok
		return nil
	}
	router := withClient(gin.New())
	router.POST("/api/sign-out", NewAuthHandler(storeOf(st)).SignOut)

	w, _ := postJSON(t, router, "/api/sign-out", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, refused, "a second submission must be refused while signing out")
	assert.False(t, st.submitting, "the submission is released once sign-out returns")
}

func TestAuthHandler_Me(t *testing.T) {
	alice := entity.User{ID: "doc-1", AccountID: "acc-1", Name: "Alice Doe", Username: "alice", Email: "alice@example.com", ImageURL: "https://img"}

	tests := []struct {
		name           string
		setup          func(m *mockStore)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name: "authenticated",
			setup: func(m *mockStore) {
				m.snapshot = authctx.Snapshot{User: alice, IsAuthenticated: true}
			},
			expectedStatus: http.StatusOK,
			expectedBody: gin.H{
				"isAuthenticated": true,
				"user": map[string]any{
					"id":        "doc-1",
					"accountId": "acc-1",
					"name":      "Alice Doe",
					"username":  "alice",
					"email":     "alice@example.com",
					"imageUrl":  "https://img",
				},
			},
		},
		{
			name:           "guest",
			setup:          func(m *mockStore) { m.CheckFunc = func() (bool, error) { return false, nil } },
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"isAuthenticated": false},
		},
		{
			name:           "backend unreachable",
			setup:          func(m *mockStore) { m.CheckFunc = func() (bool, error) { return false, errors.New("timeout") } },
			expectedStatus: http.StatusBadGateway,
			expectedBody:   gin.H{"error": "auth check failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStore()
			tt.setup(st)
			router := withClient(gin.New())
			router.GET("/api/me", NewAuthHandler(storeOf(st)).Me)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var res gin.H
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, tt.expectedBody, res)
		})
	}
}
