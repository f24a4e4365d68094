package notifiers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/rs/zerolog"
)

const (
	discordUsername  = "GitHub Follower Bot"
	discordAvatarURL = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"
)

type discordMessage struct {
	Content   string `json:"content"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DiscordNotifier posts notifications to a Discord channel webhook.
type DiscordNotifier struct {
	client     *http.Client
	webhookURL string
	logger     zerolog.Logger
}

// NewDiscordNotifier creates a new instance of DiscordNotifier.
func NewDiscordNotifier(cfg config.DiscordConfig, client *http.Client, logger *zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		client:     client,
		webhookURL: cfg.WebhookURL,
		logger:     logger.With().Str("component", "discord_notifier").Logger(),
	}
}

// Provider implements the Notifier interface.
func (n *DiscordNotifier) Provider() model.Provider { return model.ProviderDiscord }

// Send implements the Notifier interface for Discord.
func (n *DiscordNotifier) Send(ctx context.Context, title, message string) error {
	payload := discordMessage{
		Content:   fmt.Sprintf("**%s**\n%s", title, message),
		Username:  discordUsername,
		AvatarURL: discordAvatarURL,
	}

	if err := postJSON(ctx, n.client, n.webhookURL, payload, nil); err != nil {
		n.logger.Error().Err(err).Msg("failed to send discord message")
		return err
	}

	n.logger.Info().Msg("discord notification sent successfully")
	return nil
}
