package notifiers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/rs/zerolog"
)

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

// WhatsAppNotifier sends text messages through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client      *http.Client
	endpoint    string
	apiKey      string
	phoneNumber string
	logger      zerolog.Logger
}

// NewWhatsAppNotifier creates a new instance of WhatsAppNotifier.
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, client *http.Client, logger *zerolog.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		client:      client,
		endpoint:    fmt.Sprintf("%s/%s/messages", strings.TrimRight(cfg.APIURL, "/"), cfg.PhoneNumberID),
		apiKey:      cfg.APIKey,
		phoneNumber: cfg.PhoneNumber,
		logger:      logger.With().Str("component", "whatsapp_notifier").Logger(),
	}
}

// Provider implements the Notifier interface.
func (n *WhatsAppNotifier) Provider() model.Provider { return model.ProviderWhatsApp }

// Send implements the Notifier interface for WhatsApp.
func (n *WhatsAppNotifier) Send(ctx context.Context, title, message string) error {
	payload := whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               n.phoneNumber,
		Type:             "text",
		Text:             whatsAppText{Body: fmt.Sprintf("%s\n%s", title, message)},
	}
	header := http.Header{"Authorization": []string{"Bearer " + n.apiKey}}

	if err := postJSON(ctx, n.client, n.endpoint, payload, header); err != nil {
		n.logger.Error().Err(err).Msg("failed to send whatsapp message")
		return err
	}

	n.logger.Info().Str("recipient", n.phoneNumber).Msg("whatsapp notification sent successfully")
	return nil
}
