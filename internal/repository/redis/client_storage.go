package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// DefaultTTL keeps a session's storage as long as the session cookie lives
const DefaultTTL = 30 * 24 * time.Hour

// NewConnection parses url, connects and pings
func NewConnection(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type clientStorageRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClientStorageRepository creates a Redis-backed client storage repository
func NewClientStorageRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) repository.ClientStorageRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &clientStorageRepository{client: client, ttl: ttl, logger: logger}
}

func storageKey(sessionID, key string) string {
	return fmt.Sprintf("sf:storage:%s:%s", sessionID, key)
}

func (r *clientStorageRepository) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := r.client.Get(ctx, storageKey(sessionID, key)).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", &errors.ErrNotFound{Resource: "client_storage", ID: key}
	}
	if err != nil {
		r.logger.Error("Failed to get client storage value", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return value, nil
}

func (r *clientStorageRepository) Put(ctx context.Context, sessionID, key, value string) error {
	if err := r.client.Set(ctx, storageKey(sessionID, key), value, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to set client storage value", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
