package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	repo "github.com/ilindan-dev/follower-notifier/internal/domain/repository"
	"github.com/ilindan-dev/follower-notifier/pkg/keybuilder"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Ensure DeliveryGuard implements the interface
var _ repo.DeliveryGuard = (*DeliveryGuard)(nil)

// DeliveryGuard claims webhook delivery IDs in Redis so redeliveries are not
// notified twice.
type DeliveryGuard struct {
	redis  *goredis.Client
	logger zerolog.Logger
}

// NewDeliveryGuard creates a new instance of the DeliveryGuard.
func NewDeliveryGuard(redis *goredis.Client, logger *zerolog.Logger) *DeliveryGuard {
	return &DeliveryGuard{
		redis:  redis,
		logger: logger.With().Str("layer", "redis_delivery_guard").Logger(),
	}
}

// ProvideDeliveryGuard returns the Redis guard when redis.addr is set and a no-op
// guard otherwise. The Redis client is closed on application stop.
func ProvideDeliveryGuard(cfg *config.Config, logger *zerolog.Logger, lc fx.Lifecycle) repo.DeliveryGuard {
	if cfg.Redis.Addr == "" {
		logger.Info().Msg("redis not configured, delivery deduplication disabled")
		return repo.NoopDeliveryGuard{}
	}

	client := NewClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("delivery deduplication enabled")
	return NewDeliveryGuard(client, logger)
}

// Claim implements repo.DeliveryGuard using SET NX with an expiry.
func (g *DeliveryGuard) Claim(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	key := keybuilder.RedisDeliveryKeyBuild(deliveryID)
	ok, err := g.redis.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("failed to claim delivery")
		return false, fmt.Errorf("redis: claim delivery: %w", err)
	}

	if !ok {
		g.logger.Info().Str("key", key).Msg("delivery already claimed")
		return false, nil
	}
	g.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("delivery claimed")
	return true, nil
}

// Release implements repo.DeliveryGuard.
func (g *DeliveryGuard) Release(ctx context.Context, deliveryID string) error {
	key := keybuilder.RedisDeliveryKeyBuild(deliveryID)
	if err := g.redis.Del(ctx, key).Err(); err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("failed to release delivery")
		return fmt.Errorf("redis: release delivery: %w", err)
	}

	g.logger.Info().Str("key", key).Msg("delivery released")
	return nil
}
