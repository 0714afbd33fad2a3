package redis

import (
	"context"
	"log"
	"time"

	"connector-service/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewClient returns nil when no address is configured; callers treat a nil
// client as "cache and lockout disabled".
func NewClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Address == "" {
		log.Println("Warning: Redis address is empty, cache and login lockout are disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("Error connect to Redis: %s", err)
	} else {
		log.Printf("Successfully connected to Redis at %s", cfg.Address)
	}

	return client
}
