// Package redis wraps the cache client and a small async worker pool for
// cache maintenance tasks that must not block request handling.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kiu_social_server/internal/config"
	"kiu_social_server/pkg/constants"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var redisClient *redis.Client

// Init connects the process-wide client and verifies it with a ping.
func Init() error {
	conf := config.GetConfig()
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.RedisConfig.Host, conf.RedisConfig.Port),
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		zap.L().Error("connect redis failed", zap.Error(err))
		return err
	}
	zap.L().Info("redis connected", zap.String("addr", redisClient.Options().Addr))
	return nil
}

// Close releases the client, for shutdown.
func Close() {
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// SetKeyEx stores a string value with an expiry. All operations are no-ops
// when the client is not initialized, so code paths that treat the cache as
// best-effort keep working without one.
func SetKeyEx(key, value string, timeout time.Duration) error {
	if redisClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	if err := redisClient.Set(ctx, key, value, timeout).Err(); err != nil {
		zap.L().Error("redis set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// GetKey returns the value, or "" with a nil error when the key is absent.
func GetKey(key string) (string, error) {
	if redisClient == nil {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	value, err := redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		zap.L().Error("redis get failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return value, nil
}

// GetKeyNilIsErr returns the value; a missing key surfaces redis.Nil so the
// caller can distinguish cache miss from empty value.
func GetKeyNilIsErr(key string) (string, error) {
	if redisClient == nil {
		return "", redis.Nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Error("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return "", err
	}
	return value, nil
}

// DelKeyIfExists deletes the key when present; absence is not an error.
func DelKeyIfExists(key string) error {
	if redisClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	n, err := redisClient.Exists(ctx, key).Result()
	if err != nil {
		zap.L().Error("redis exists failed", zap.String("key", key), zap.Error(err))
		return err
	}
	if n == 0 {
		return nil
	}
	if err := redisClient.Del(ctx, key).Err(); err != nil {
		zap.L().Error("redis del failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// DelKeysWithPattern deletes every key matching the pattern via SCAN.
func DelKeysWithPattern(pattern string) error {
	if redisClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			zap.L().Error("redis del failed", zap.String("key", iter.Val()), zap.Error(err))
			return err
		}
	}
	if err := iter.Err(); err != nil {
		zap.L().Error("redis scan failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
