package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	deliveryHTTP "github.com/ilindan-dev/follower-notifier/internal/delivery/http"
	"github.com/ilindan-dev/follower-notifier/internal/logger"
	"github.com/ilindan-dev/follower-notifier/internal/metrics"
	"github.com/ilindan-dev/follower-notifier/internal/notifiers"
	"github.com/ilindan-dev/follower-notifier/internal/service"
	"github.com/ilindan-dev/follower-notifier/internal/storage/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// CommonModule provides the configuration, logging and notification core.
var CommonModule = fx.Options(
	fx.Provide(
		// Core components
		config.NewConfig,
		logger.NewLogger,
		metrics.NewRegistry,
		func(reg *prometheus.Registry) (*metrics.Metrics, error) {
			return metrics.New(reg)
		},

		// Notification fan-out
		notifiers.NewManager,
		func(m *notifiers.Manager) service.Broadcaster { return m },

		// Storage Layer
		redis.ProvideDeliveryGuard,

		// Service Layer
		service.NewWebhookService,
	),
)

// APIModule defines the Fx module for the webhook HTTP server.
var APIModule = fx.Options(
	CommonModule,
	fx.Provide(
		deliveryHTTP.NewHandlers,
		deliveryHTTP.NewServer,
	),

	fx.Invoke(func(server *deliveryHTTP.Server, lc fx.Lifecycle, shutdowner fx.Shutdowner, logger *zerolog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					logger.Info().Str("addr", server.Addr).Msg("http server listening")
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Msg("http server failed")
						_ = shutdowner.Shutdown(fx.ExitCode(1))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
		})
	}),
)
