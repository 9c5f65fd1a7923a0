package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is nil when Redis is not configured; callers must treat a nil
// client as "no cache, no Redis rate limit".
var RedisClient *redis.Client

// ConnectRedis connects to Redis. An empty URI leaves RedisClient nil.
func ConnectRedis(ctx context.Context, redisURI string) (*redis.Client, error) {
	if redisURI == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 2
	opt.DialTimeout = 3 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second
	opt.PoolTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	RedisClient = client
	return client, nil
}

// DisconnectRedis closes the Redis connection and resets the global handle
func DisconnectRedis() error {
	if RedisClient == nil {
		return nil
	}
	err := RedisClient.Close()
	RedisClient = nil
	return err
}
