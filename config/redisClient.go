package config

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var Ctx = context.Background()
var RedisClient *redis.Client

// ConnectRedis initializes the Redis client used by the issue rate
// limiter. Redis is optional: when REDIS_ADDRESS is unset the client
// stays nil and the limiter becomes a no-op.
func ConnectRedis(addr, password string) {
	if addr == "" {
		logrus.Info("REDIS_ADDRESS not set, issue rate limiting disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := client.Ping(Ctx).Result(); err != nil {
		logrus.WithError(err).Warn("failed to connect to Redis, issue rate limiting disabled")
		return
	}

	RedisClient = client
	logrus.Info("Connected to Redis")
}
