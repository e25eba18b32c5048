package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teampulse/dailybot/config"
)

var (
	redisClient    *redis.Client
	redisOnce      sync.Once
	redisAvailable bool
)

// GetRedis returns a singleton Redis client, or nil when Redis is unreachable
// so callers fall back to their in-memory paths.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.Get()
		client := redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			Sugar.Infof("redis unavailable, member cache falls back to memory: %v", err)
			return
		}
		redisClient = client
		redisAvailable = true
	})
	if !redisAvailable {
		return nil
	}
	return redisClient
}
