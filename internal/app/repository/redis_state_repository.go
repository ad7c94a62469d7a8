package repository

import (
	"context"
	"errors"
	"time"

	"github.com/meshur/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type redisStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateRepository stores each key as a plain string. A ttl of zero
// keeps keys forever; otherwise every save refreshes the expiry.
func NewRedisStateRepository(client *redis.Client, ttl time.Duration) StateRepository {
	return &redisStateRepository{client: client, ttl: ttl}
}

func (r *redisStateRepository) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		logger.Error("Failed to load state from Redis", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return val, true, nil
}

func (r *redisStateRepository) Save(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		logger.Error("Failed to save state to Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}

	logger.Debug("State saved to Redis", map[string]interface{}{
		"key": key,
		"ttl": r.ttl.String(),
	})
	return nil
}

func (r *redisStateRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Error("Failed to delete state from Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
