package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/commerce/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// NewClient connects to Redis and verifies the connection with a ping
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// WaitForRedis connects to Redis, retrying with exponential backoff until it
// is reachable or the attempt budget is spent. Compose environments start the
// API before Redis finishes accepting connections.
func WaitForRedis(ctx context.Context, cfg *config.RedisConfig, startup config.StartupConfig, log *zap.Logger) (*redis.Client, error) {
	backoff := retry.WithCappedDuration(startup.MaxDelay,
		retry.WithMaxRetries(uint64(startup.MaxAttempts-1),
			retry.NewExponential(startup.InitialDelay)))

	var client *redis.Client
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		client, err = NewClient(cfg)
		if err != nil {
			log.Warn("redis not ready, retrying",
				zap.String("addr", cfg.Addr()),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis never became ready: %w", err)
	}

	return client, nil
}
