package common

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheService implements CacheInterface using Redis
type RedisCacheService struct {
	client *redis.Client
	ctx    context.Context
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService creates a new Redis-based cache service
func NewRedisCacheService() (*RedisCacheService, error) {
	if os.Getenv("REDIS_HOST") == "" {
		return nil, fmt.Errorf("REDIS_HOST not configured")
	}

	client := NewRedisClient()
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheService{
		client: client,
		ctx:    ctx,
	}, nil
}

func (rc *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	rc.client.Set(rc.ctx, key, data, duration)
}

func (rc *RedisCacheService) Get(key string) (interface{}, bool) {
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return value, true
}

func (rc *RedisCacheService) GetJSON(key string, dest interface{}) bool {
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (rc *RedisCacheService) Delete(key string) {
	rc.client.Del(rc.ctx, key)
}

func (rc *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := rc.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	rc.Set(key, val, duration)
	return val, nil
}

// Close closes the Redis connection
func (rc *RedisCacheService) Close() error {
	return rc.client.Close()
}
