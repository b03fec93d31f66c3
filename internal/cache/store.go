package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the TTL cache used by the catalog pipeline. Implemented by the
// in-memory map (dev, single instance) and Redis (prod).
//
// Entries are written only after a successful computation; failed upstream
// fetches are never cached, so a transient error cannot poison results for
// a whole TTL window.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Config struct {
	Backend string // "memory" or "redis"
	Prefix  string
}

// NewStore selects a backend from config.
func NewStore(cfg Config, redisClient *redis.Client) Store {
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(redisClient, RedisConfig{
			Prefix: cfg.Prefix,
		})
	default:
		return NewMemoryStore(5 * time.Minute)
	}
}
