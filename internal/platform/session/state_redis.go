package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/feature/auth/domain/entity"
)

// StateRedis implements authctx.StateRepository using Redis.
// Every write refreshes the key TTL, so inactive clients expire on their own.
type StateRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ authctx.StateRepository = (*StateRedis)(nil)

// NewStateRedis creates a new StateRedis instance.
// ttl <= 0 stores keys without expiry.
func NewStateRedis(client *redis.Client, prefix string, ttl time.Duration) *StateRedis {
	return &StateRedis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// stateKey returns the Redis key for a client's state.
func (r *StateRedis) stateKey(clientID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, clientID)
}

// Load retrieves the state of a client.
func (r *StateRedis) Load(ctx context.Context, clientID string) (*entity.AuthState, error) {
	data, err := r.client.Get(ctx, r.stateKey(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, authctx.ErrStateNotFound
		}
		return nil, err
	}

	var state entity.AuthState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth state: %w", err)
	}
	return &state, nil
}

// Save stores the state of a client and refreshes its TTL.
func (r *StateRedis) Save(ctx context.Context, state *entity.AuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal auth state: %w", err)
	}
	return r.client.Set(ctx, r.stateKey(state.ClientID), data, r.ttl).Err()
}

// Delete removes the state of a client.
func (r *StateRedis) Delete(ctx context.Context, clientID string) error {
	return r.client.Del(ctx, r.stateKey(clientID)).Err()
}
