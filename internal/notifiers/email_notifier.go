package notifiers

import (
	"context"
	"time"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// defaultSMTPTimeout bounds an SMTP session when no notifier timeout is configured.
const defaultSMTPTimeout = 30 * time.Second

// mailSender delivers composed messages over one SMTP session.
type mailSender interface {
	Send(ctx context.Context, m ...*gomail.Message) error
}

// EmailNotifier sends notifications via SMTP.
type EmailNotifier struct {
	sender mailSender
	from   string
	to     string
	logger zerolog.Logger
}

// NewEmailNotifier creates a new instance of EmailNotifier.
// Every SMTP session is bounded by timeout or the send context, whichever ends first.
func NewEmailNotifier(cfg config.EmailConfig, timeout time.Duration, logger *zerolog.Logger) *EmailNotifier {
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	return &EmailNotifier{
		sender: &smtpSender{
			host:     cfg.Host,
			port:     cfg.Port,
			username: cfg.Username,
			password: cfg.Password,
			ssl:      cfg.Port == 465,
			timeout:  timeout,
		},
		from:   cfg.From,
		to:     cfg.To,
		logger: logger.With().Str("component", "email_notifier").Logger(),
	}
}

// Provider implements the Notifier interface.
func (n *EmailNotifier) Provider() model.Provider { return model.ProviderEmail }

// Send implements the Notifier interface for email.
func (n *EmailNotifier) Send(ctx context.Context, title, message string) error {
	m := n.newMessage(title, message)

	if err := n.sender.Send(ctx, m); err != nil {
		n.logger.Error().Err(err).Str("recipient", n.to).Msg("failed to send email")
		return err
	}

	n.logger.Info().Str("recipient", n.to).Msg("email sent successfully")
	return nil
}

func (n *EmailNotifier) newMessage(title, message string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", title)
	m.SetBody("text/plain", message)
	return m
}
