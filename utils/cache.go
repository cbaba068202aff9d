// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"pharmakiosk/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

var (
	// CacheClient backs the dashboard statistics cache.
	CacheClient *redis.Client
)

// InitCache initializes the Redis cache client. A failed ping is returned so the
// caller can run without a cache.
func InitCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the cache client, nil when Redis is unavailable.
func GetCacheClient() *redis.Client {
	return CacheClient
}

// QueueRedisOpt returns the asynq connection settings for the task queue DB.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
