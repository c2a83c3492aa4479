package authctx

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/feature/auth/usecase"
)

// RouteSignIn is where clients without a prior session are sent.
const RouteSignIn = "/sign-in"

// Snapshot is a read-only copy of a client's auth state.
type Snapshot struct {
	User            entity.User
	IsLoading       bool
	IsAuthenticated bool
}

// Store owns the auth state of one client.
type Store struct {
	clientID string
	backend  Backend
	repo     StateRepository
	creds    *entity.Credentials
	hooks    *usecase.Hooks
	now      func() time.Time

	mu              sync.RWMutex
	user            entity.User
	loading         int
	submitting      bool
	isAuthenticated bool
	lastUsed        time.Time
}

func newStore(state *entity.AuthState, backend Backend, repo StateRepository, now func() time.Time) *Store {
	creds := entity.NewCredentials(state.FallbackCookies)
	return &Store{
		clientID:        state.ClientID,
		backend:         backend,
		repo:            repo,
		creds:           creds,
		hooks:           backend.NewHooks(creds),
		now:             now,
		user:            state.User,
		isAuthenticated: state.IsAuthenticated,
		lastUsed:        now(),
	}
}

// ClientID returns the client the store belongs to.
func (s *Store) ClientID() string {
	return s.clientID
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		User:            s.user,
		IsLoading:       s.loading > 0,
		IsAuthenticated: s.isAuthenticated,
	}
}

// Credentials returns the backend cookies of the client.
func (s *Store) Credentials() *entity.Credentials {
	return s.creds
}

// Hooks returns the client's mutations.
func (s *Store) Hooks() *usecase.Hooks {
	return s.hooks
}

// Busy reports whether a mutation or an auth check is running. Forms refuse
// new submissions while busy.
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busyLocked()
}

func (s *Store) busyLocked() bool {
	return s.submitting || s.loading > 0 || s.hooks.AnyPending()
}

// BeginSubmission marks a form submission as running. It returns ok=false
// when the store is busy; otherwise done must be called once the submission ends.
func (s *Store) BeginSubmission() (done func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busyLocked() {
		return nil, false
	}
	s.submitting = true
	s.lastUsed = s.now()
	return func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}, true
}

// CheckAuthUser asks the backend for the current user. On success the user
// is stored and the client becomes authenticated. On any failure the user is
// cleared and the client is no longer authenticated. The returned error is
// non-nil only when the backend could not be reached or answered with an
// unexpected error; "nobody signed in" yields (false, nil).
func (s *Store) CheckAuthUser(ctx context.Context) (bool, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.backend.GetCurrentUser(ctx, s.creds)

	s.mu.Lock()
	if err != nil || user == nil {
		s.user = entity.EmptyUser()
		s.isAuthenticated = false
	} else {
		s.user = *user
		s.isAuthenticated = true
	}
	authenticated := s.isAuthenticated
	s.mu.Unlock()

	s.persist(ctx)

	if err != nil && !usecase.IsAbsence(err) {
		return false, err
	}
	return authenticated, nil
}

// Mount runs the startup check of a client. When the fallback marker shows
// that no session can exist, the state is reset without calling the backend
// and RouteSignIn is returned. Otherwise the auth check runs and the
// returned redirect is empty.
func (s *Store) Mount(ctx context.Context) (string, error) {
	if s.creds.IsEmpty() {
		s.reset(ctx)
		return RouteSignIn, nil
	}
	_, err := s.CheckAuthUser(ctx)
	return "", err
}

// SignOut deletes the backend session and resets the state.
func (s *Store) SignOut(ctx context.Context) error {
	if _, err := s.hooks.SignOutAccount.Mutate(ctx, struct{}{}); err != nil {
		return err
	}
	s.reset(ctx)
	return nil
}

func (s *Store) reset(ctx context.Context) {
	s.mu.Lock()
	changed := s.isAuthenticated || !s.user.IsEmpty()
	s.user = entity.EmptyUser()
	s.isAuthenticated = false
	s.mu.Unlock()
	if changed {
		s.persist(ctx)
	}
}

func (s *Store) setLoading(on bool) {
	s.mu.Lock()
	if on {
		s.loading++
	} else {
		s.loading--
	}
	s.lastUsed = s.now()
	s.mu.Unlock()
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastUsed = s.now()
	s.mu.Unlock()
}

func (s *Store) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

// state builds the persisted form of the store.
func (s *Store) state() *entity.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &entity.AuthState{
		ClientID:        s.clientID,
		User:            s.user,
		IsAuthenticated: s.isAuthenticated,
		FallbackCookies: s.creds.FallbackCookies(),
		UpdatedAt:       s.now(),
	}
}

// persist saves the state. The in-process store stays authoritative, so a
// failed write is logged and the request carries on.
func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.state()); err != nil {
		slog.Error("failed to persist auth state", "client_id", s.clientID, "error", err)
	}
}
