package db

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// ConnectRedis creates a Redis client from a URL and verifies connectivity.
// The same connection serves both the listing cache and the event transport;
// go-redis multiplexes pub/sub onto dedicated connections internally.
func ConnectRedis(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
