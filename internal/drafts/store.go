// Package drafts keeps each signed-in user's in-progress dashboard flow
// between requests. Entries expire on their own; nothing here is a
// system of record.
package drafts

import (
	"context"
	"fmt"
	"time"

	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "draft:"

// Store reads and writes flow drafts keyed by user id
type Store interface {
	// Get returns the draft for uid; found is false when none exists
	Get(ctx context.Context, uid string) (f flow.Flow, found bool, err error)
	// Save writes the draft and restarts its TTL
	Save(ctx context.Context, uid string, f flow.Flow) error
	Delete(ctx context.Context, uid string) error
	Name() string
}

func key(uid string) string {
	return keyPrefix + uid
}

// New builds the store selected by backend ("memory" or "redis")
func New(backend, redisURL string, ttl time.Duration) (Store, error) {
	switch backend {
	case "", "memory":
		return NewMemoryStore(ttl), nil
	case "redis":
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return NewRedisStore(redis.NewClient(opts), ttl), nil
	default:
		return nil, fmt.Errorf("unknown drafts backend %q", backend)
	}
}
