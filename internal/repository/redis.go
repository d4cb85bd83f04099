package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/config"
)

const knownIDsKey = "poller:known_booking_ids"

// RedisStateRepository persists the poller's known-id set so process
// restarts do not replay new-booking notifications.
type RedisStateRepository struct {
	client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisStateRepository(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{client: client}
}

func (r *RedisStateRepository) GetKnownIDs(ctx context.Context) ([]string, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, knownIDsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get known ids from redis: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal known ids: %w", err)
	}
	return ids, nil
}

func (r *RedisStateRepository) SetKnownIDs(ctx context.Context, ids []string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal known ids: %w", err)
	}
	if err := r.client.Set(ctx, knownIDsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set known ids in redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) ClearKnownIDs(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, knownIDsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear known ids: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
