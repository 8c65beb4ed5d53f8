package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// PredictionCacheTTL bounds how long a prediction response is served from
// cache before the pipeline runs again.
const PredictionCacheTTL = 25 * time.Minute

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		slog.Warn("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(context.Background()).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// PredictionCacheKey builds the cache key for one prediction request shape.
func PredictionCacheKey(profile, timeRange string, limit int) string {
	return fmt.Sprintf("hacktech:predictions:%s:%s:%d", profile, timeRange, limit)
}

func CacheGet(ctx context.Context, key string) (string, bool) {
	val, err := Redis.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	return Redis.Set(ctx, key, value, ttl).Err()
}
