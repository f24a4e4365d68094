package notifiers

import (
	"context"

	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/rs/zerolog"
)

// LogNotifier is a mock notifier that implements the Notifier interface.
// It simply logs the notification instead of sending it through a real channel.
// It stands in for every configured provider outside production mode.
type LogNotifier struct {
	provider model.Provider
	logger   zerolog.Logger
}

// NewLogNotifier creates a new instance of LogNotifier for provider.
func NewLogNotifier(provider model.Provider, logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{
		provider: provider,
		logger:   logger.With().Str("component", "log_notifier").Logger(),
	}
}

// Provider implements the Notifier interface.
func (n *LogNotifier) Provider() model.Provider { return n.provider }

// Send implements the Notifier interface.
func (n *LogNotifier) Send(_ context.Context, title, message string) error {
	n.logger.Info().
		Str("provider", string(n.provider)).
		Str("title", title).
		Str("message", message).
		Msg(">>> MOCK SEND: Notification dispatched")

	return nil
}
