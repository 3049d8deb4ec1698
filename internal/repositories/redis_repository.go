package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/config"
)

// RateLimitRepository guards the role-assignment endpoint: a sliding window
// of attempts per uid.
type RateLimitRepository interface {
	// Returns isAllowed, attempts left, seconds to wait, error
	CheckAttempt(ctx context.Context, key string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.Config
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("host", cfg.RedisConnect.Host), slog.String("port", cfg.RedisConnect.Port))

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")

	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.Config) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg}
}

func (r *redisRepository) CheckAttempt(ctx context.Context, key string) (bool, int, int, error) {

	logger := middleware.LoggerFromContext(ctx)

	redisKey := fmt.Sprintf("role_attempts:%s", key)

	now := time.Now().Unix()

	// Attempts before the window start no longer count.
	windowStart := now - int64(r.cfg.RateConfig.WindowSize.Seconds())

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.cfg.RateConfig.WindowSize)

	_, err := pipe.Exec(ctx)
	if err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", redisKey), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()

	if attempts > r.cfg.RateConfig.MaxAttempts {
		retryAfter := int(r.cfg.RateConfig.WindowSize.Seconds())

		logger.Warn("Rate limit exceeded", slog.String("key", redisKey), slog.Int64("attempts", attempts))

		return false, 0, retryAfter, nil
	}

	remaining := int(r.cfg.RateConfig.MaxAttempts - attempts)

	return true, remaining, 0, nil
}
