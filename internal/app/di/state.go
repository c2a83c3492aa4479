// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "snapgram/internal/feature/auth/adapters"
	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/platform/session"
)

// stateKeyPrefix namespaces auth state keys in Redis.
const stateKeyPrefix = "authstate"

// NewStateRepository creates a StateRepository implementation.
// If Redis is available, it returns a Redis-backed implementation whose keys expire after ttl.
// Otherwise, it falls back to SQL.
func NewStateRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) authctx.StateRepository {
	if rdb != nil {
		return session.NewStateRedis(rdb, stateKeyPrefix, ttl)
	}
	return authadapters.NewStateGorm(db)
}
