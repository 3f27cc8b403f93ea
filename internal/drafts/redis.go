package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps drafts as JSON strings under draft:{uid}
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, uid string) (flow.Flow, bool, error) {
	data, err := s.client.Get(ctx, key(uid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return flow.Flow{}, false, nil
	}
	if err != nil {
		return flow.Flow{}, false, fmt.Errorf("failed to get draft: %w", err)
	}

	var f flow.Flow
	if err := json.Unmarshal(data, &f); err != nil {
		// A draft we cannot read is dropped rather than blocking the user
		logger.Warn("Discarding unreadable draft", zap.String("uid", uid), zap.Error(err))
		_ = s.client.Del(ctx, key(uid)).Err() //nolint:errcheck
		return flow.Flow{}, false, nil
	}
	return f, true, nil
}

func (s *RedisStore) Save(ctx context.Context, uid string, f flow.Flow) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, key(uid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, uid string) error {
	if err := s.client.Del(ctx, key(uid)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Name() string { return "redis" }

// Ping checks connectivity for the health endpoint
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
