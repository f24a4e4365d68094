package redis

import (
	"github.com/ilindan-dev/follower-notifier/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient creates a go-redis client for cfg. It does not dial until first use.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
