package client

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"studymart-checkout/internal/config"
)

// InitRedisClient connects to redis and verifies the connection with a PING.
func InitRedisClient(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return rdb, nil
}
