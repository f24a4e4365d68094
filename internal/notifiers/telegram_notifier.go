package notifiers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/rs/zerolog"
)

// TelegramNotifier sends notifications via a Telegram bot.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID string
	logger zerolog.Logger
}

// NewTelegramNotifier creates a new instance of TelegramNotifier.
// No Bot API call is made here; a bad token or an unreachable API surfaces on Send.
func NewTelegramNotifier(cfg config.TelegramConfig, client *http.Client, logger *zerolog.Logger) *TelegramNotifier {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot := &tgbotapi.BotAPI{
		Token:  cfg.BotToken,
		Client: client,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)

	return &TelegramNotifier{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: logger.With().Str("component", "telegram_notifier").Logger(),
	}
}

// Provider implements the Notifier interface.
func (n *TelegramNotifier) Provider() model.Provider { return model.ProviderTelegram }

// Send implements the Notifier interface for Telegram.
// The Bot API client does not take a context; the Manager bounds the call instead.
func (n *TelegramNotifier) Send(_ context.Context, title, message string) error {
	fullMessage := fmt.Sprintf("*%s*\n%s", title, message)

	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(n.chatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, fullMessage)
	} else {
		msg = tgbotapi.NewMessageToChannel(n.chatID, fullMessage)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Str("chat_id", n.chatID).Msg("failed to send telegram message")
		return err
	}

	n.logger.Info().Str("chat_id", n.chatID).Msg("telegram message sent successfully")
	return nil
}
