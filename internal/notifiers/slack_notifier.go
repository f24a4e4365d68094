package notifiers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/rs/zerolog"
)

type slackMessage struct {
	Text    string `json:"text"`
	Channel string `json:"channel,omitempty"`
}

// SlackNotifier posts notifications to a Slack incoming webhook.
type SlackNotifier struct {
	client     *http.Client
	webhookURL string
	channel    string
	logger     zerolog.Logger
}

// NewSlackNotifier creates a new instance of SlackNotifier.
func NewSlackNotifier(cfg config.SlackConfig, client *http.Client, logger *zerolog.Logger) *SlackNotifier {
	return &SlackNotifier{
		client:     client,
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		logger:     logger.With().Str("component", "slack_notifier").Logger(),
	}
}

// Provider implements the Notifier interface.
func (n *SlackNotifier) Provider() model.Provider { return model.ProviderSlack }

// Send implements the Notifier interface for Slack.
func (n *SlackNotifier) Send(ctx context.Context, title, message string) error {
	payload := slackMessage{
		Text:    fmt.Sprintf("*%s*\n%s", title, message),
		Channel: n.channel,
	}

	if err := postJSON(ctx, n.client, n.webhookURL, payload, nil); err != nil {
		n.logger.Error().Err(err).Msg("failed to send slack message")
		return err
	}

	n.logger.Info().Msg("slack notification sent successfully")
	return nil
}
