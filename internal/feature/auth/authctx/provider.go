package authctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"snapgram/internal/feature/auth/domain/entity"
)

// defaultIdleTTL is how long an unused store stays in memory.
const defaultIdleTTL = 30 * time.Minute

// Provider owns the stores of every client. Stores are loaded from the
// repository on first use and dropped from memory once idle.
type Provider struct {
	backend Backend
	repo    StateRepository
	idleTTL time.Duration
	// stateTTL is how long a persisted state outlives its last update. 0 disables pruning.
	stateTTL time.Duration
	now      func() time.Time

	mu     sync.Mutex
	stores map[string]*Store
}

// NewProvider creates a Provider. If idleTTL is 0, it defaults to 30 minutes.
func NewProvider(backend Backend, repo StateRepository, idleTTL time.Duration) *Provider {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &Provider{
		backend: backend,
		repo:    repo,
		idleTTL: idleTTL,
		now:     time.Now,
		stores:  map[string]*Store{},
	}
}

// WithStateTTL enables pruning of persisted states older than ttl when the
// repository implements StalePruner.
func (p *Provider) WithStateTTL(ttl time.Duration) *Provider {
	p.stateTTL = ttl
	return p
}

// Store returns the store of clientID, loading its persisted state or
// starting from the initial state.
func (p *Provider) Store(ctx context.Context, clientID string) (*Store, error) {
	if clientID == "" {
		return nil, errors.New("authctx: empty client id")
	}

	p.mu.Lock()
	if st, ok := p.stores[clientID]; ok {
		p.mu.Unlock()
		st.touch()
		return st, nil
	}
	p.mu.Unlock()

	state, err := p.repo.Load(ctx, clientID)
	switch {
	case errors.Is(err, ErrStateNotFound):
		state = entity.NewAuthState(clientID)
	case err != nil:
		return nil, fmt.Errorf("load auth state: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// 並行リクエストが先に登録していればそちらを使う
	if st, ok := p.stores[clientID]; ok {
		return st, nil
	}
	st := newStore(state, p.backend, p.repo, p.now)
	p.stores[clientID] = st
	return st, nil
}

// Sweep drops stores idle for longer than the idle TTL and not busy.
// Their state remains in the repository. It returns the number dropped.
func (p *Provider) Sweep() int {
	cutoff := p.now().Add(-p.idleTTL)

	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for id, st := range p.stores {
		if st.idleSince().Before(cutoff) && !st.Busy() {
			delete(p.stores, id)
			n++
		}
	}
	return n
}

// Len returns the number of stores held in memory.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stores)
}

// Prune deletes persisted states older than the state TTL.
// It is a no-op when the TTL is unset or the repository cannot prune.
func (p *Provider) Prune(ctx context.Context) (int64, error) {
	pruner, ok := p.repo.(StalePruner)
	if !ok || p.stateTTL <= 0 {
		return 0, nil
	}
	return pruner.DeleteStale(ctx, p.now().Add(-p.stateTTL))
}

// Run sweeps idle stores and prunes stale states every interval until ctx is done.
func (p *Provider) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.Sweep(); n > 0 {
				slog.Info("evicted idle auth stores", "count", n)
			}
			if n, err := p.Prune(ctx); err != nil {
				slog.Warn("failed to prune auth states", "error", err)
			} else if n > 0 {
				slog.Info("pruned stale auth states", "count", n)
			}
		}
	}
}
