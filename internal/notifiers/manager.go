package notifiers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/ilindan-dev/follower-notifier/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Manager fans a single notification out to every configured channel.
// The channel set is fixed at construction; a Manager is safe for concurrent use.
type Manager struct {
	notifiers map[model.Provider]Notifier
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewManager creates a Manager with one notifier per provider enabled in the config.
// Outside "production" mode every enabled provider is backed by a LogNotifier.
func NewManager(cfg *config.Config, logger *zerolog.Logger, m *metrics.Metrics) *Manager {
	log := logger.With().Str("component", "notification_manager").Logger()
	log.Info().Str("mode", cfg.Notifiers.Mode).Msg("initializing notifiers")

	list := buildNotifiers(cfg.Notifiers, logger)
	for _, n := range list {
		log.Info().Str("provider", string(n.Provider())).Msg("notifier enabled")
	}
	if len(list) == 0 {
		log.Warn().Msg("no notification channels configured")
	}

	return NewManagerWithNotifiers(list, cfg.Notifiers.Timeout, m, logger)
}

func buildNotifiers(cfg config.NotifiersConfig, logger *zerolog.Logger) []Notifier {
	enabled := map[model.Provider]bool{
		model.ProviderSlack:    cfg.Slack.Enabled(),
		model.ProviderDiscord:  cfg.Discord.Enabled(),
		model.ProviderTelegram: cfg.Telegram.Enabled(),
		model.ProviderWhatsApp: cfg.WhatsApp.Enabled(),
		model.ProviderEmail:    cfg.Email.Enabled(),
	}

	var list []Notifier
	if cfg.Mode != "production" {
		for _, p := range model.Providers() {
			if enabled[p] {
				list = append(list, NewLogNotifier(p, logger))
			}
		}
		return list
	}

	client := NewHTTPClient(cfg.Timeout)
	if enabled[model.ProviderSlack] {
		list = append(list, NewSlackNotifier(cfg.Slack, client, logger))
	}
	if enabled[model.ProviderDiscord] {
		list = append(list, NewDiscordNotifier(cfg.Discord, client, logger))
	}
	if enabled[model.ProviderTelegram] {
		list = append(list, NewTelegramNotifier(cfg.Telegram, client, logger))
	}
	if enabled[model.ProviderWhatsApp] {
		list = append(list, NewWhatsAppNotifier(cfg.WhatsApp, client, logger))
	}
	if enabled[model.ProviderEmail] {
		list = append(list, NewEmailNotifier(cfg.Email, cfg.Timeout, logger))
	}
	return list
}

// NewManagerWithNotifiers creates a Manager over an explicit notifier list.
// A non-positive timeout leaves dispatches bounded only by the caller's context.
func NewManagerWithNotifiers(list []Notifier, timeout time.Duration, m *metrics.Metrics, logger *zerolog.Logger) *Manager {
	log := logger.With().Str("component", "notification_manager").Logger()

	byProvider := make(map[model.Provider]Notifier, len(list))
	for _, n := range list {
		if _, dup := byProvider[n.Provider()]; dup {
			log.Warn().Str("provider", string(n.Provider())).Msg("duplicate notifier ignored")
			continue
		}
		byProvider[n.Provider()] = n
	}

	return &Manager{
		notifiers: byProvider,
		timeout:   timeout,
		metrics:   m,
		logger:    log,
	}
}

// Providers returns the configured provider kinds.
func (m *Manager) Providers() []model.Provider {
	out := make([]model.Provider, 0, len(m.notifiers))
	for _, p := range model.Providers() {
		if _, ok := m.notifiers[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Dispatch sends the notification to every configured channel concurrently and
// waits for all of them. It never short-circuits on a failure.
func (m *Manager) Dispatch(ctx context.Context, title, message string) model.DispatchReport {
	report := model.DispatchReport{ID: uuid.New(), Configured: len(m.notifiers)}
	if report.Configured == 0 {
		m.logger.Debug().Stringer("dispatch_id", report.ID).Msg("no channels configured, nothing to send")
		return report
	}

	log := m.logger.With().Stringer("dispatch_id", report.ID).Logger()
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	p := pool.NewWithResults[*model.ChannelFailure]().WithMaxGoroutines(len(m.notifiers))
	for provider, n := range m.notifiers {
		p.Go(func() *model.ChannelFailure {
			err := m.send(ctx, n, title, message)
			m.metrics.RecordSend(string(provider), err)
			if err != nil {
				log.Warn().Err(err).Str("provider", string(provider)).Msg("notification channel failed")
				return &model.ChannelFailure{Provider: provider, Err: err}
			}
			return nil
		})
	}

	for _, f := range p.Wait() {
		if f != nil {
			report.Failures = append(report.Failures, *f)
		}
	}

	elapsed := time.Since(start)
	m.metrics.RecordDispatch(string(report.Status()), elapsed)
	log.Debug().
		Int("configured", report.Configured).
		Int("failed", len(report.Failures)).
		Dur("elapsed", elapsed).
		Msg("dispatch finished")

	return report
}

// Notify dispatches and applies the failure policy: an error is returned only when
// every configured channel failed. Partial failure is logged as a warning.
func (m *Manager) Notify(ctx context.Context, title, message string) (model.DispatchReport, error) {
	report := m.Dispatch(ctx, title, message)

	switch report.Status() {
	case model.StatusPartialFailure:
		m.logger.Warn().
			Stringer("dispatch_id", report.ID).
			Int("configured", report.Configured).
			Int("failed", len(report.Failures)).
			Msg("notification partially delivered")
	case model.StatusAllFailed:
		m.logger.Error().
			Err(report.Err()).
			Stringer("dispatch_id", report.ID).
			Int("configured", report.Configured).
			Msg("notification delivery failed on every channel")
	}

	return report, report.Err()
}

// NotifyAll is Notify without the report.
func (m *Manager) NotifyAll(ctx context.Context, title, message string) error {
	_, err := m.Notify(ctx, title, message)
	return err
}

// send runs one notifier and stops waiting for it once ctx is done. Notifiers that
// ignore ctx keep running in the background until their own client timeout.
func (m *Manager) send(ctx context.Context, n Notifier, title, message string) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("notifier panicked: %v", r)
			}
		}()
		done <- n.Send(ctx, title, message)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("send abandoned: %w", ctx.Err())
	}
}
