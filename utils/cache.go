// File: utils/cache.go
package utils

import (
	"agendapro/config"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the Redis client backing the redis record store.
var CacheClient *redis.Client

// InitCache initializes the Redis client using the address and DB from AppConfig.
func InitCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the Redis client, connecting on first use.
func GetCacheClient() (*redis.Client, error) {
	if CacheClient == nil {
		if err := InitCache(); err != nil {
			return nil, err
		}
	}
	return CacheClient, nil
}
