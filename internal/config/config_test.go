package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.HTTP.Port != ":8080" {
		t.Errorf("expected default port :8080, got %q", cfg.HTTP.Port)
	}
	if cfg.Notifiers.Timeout != 10*time.Second {
		t.Errorf("expected default notifier timeout 10s, got %s", cfg.Notifiers.Timeout)
	}
	if cfg.Notifiers.Email.Port != 465 {
		t.Errorf("expected default smtp port 465, got %d", cfg.Notifiers.Email.Port)
	}
	if cfg.Notifiers.Telegram.Enabled() || cfg.Notifiers.Slack.Enabled() || cfg.Notifiers.Email.Enabled() {
		t.Error("expected no notifier enabled without configuration")
	}
}

func TestNewConfig_LegacyEnvironmentNames(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GITHUB_WEBHOOK_SECRET", "s3cret")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SMTP_PORT", "587")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.HTTP.Port != ":9000" {
		t.Errorf("expected port :9000, got %q", cfg.HTTP.Port)
	}
	if cfg.Webhook.Secret != "s3cret" {
		t.Errorf("expected webhook secret from GITHUB_WEBHOOK_SECRET, got %q", cfg.Webhook.Secret)
	}
	if !cfg.Notifiers.Telegram.Enabled() {
		t.Error("expected telegram notifier to be enabled")
	}
	if cfg.Notifiers.Email.Port != 587 {
		t.Errorf("expected smtp port 587, got %d", cfg.Notifiers.Email.Port)
	}
}

func TestNewConfig_CanonicalNameWinsOverAlias(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/alias")
	t.Setenv("NOTIFIERS_SLACK_WEBHOOK_URL", "https://hooks.slack.test/canonical")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if got := cfg.Notifiers.Slack.WebhookURL; got != "https://hooks.slack.test/canonical" {
		t.Errorf("expected canonical env name to win, got %q", got)
	}
}

func TestProviderEnabled_RequiresEveryField(t *testing.T) {
	wa := WhatsAppConfig{APIKey: "k", PhoneNumber: "+100"}
	if wa.Enabled() {
		t.Error("whatsapp without phone number id should be disabled")
	}
	wa.PhoneNumberID = "555"
	if !wa.Enabled() {
		t.Error("whatsapp with all fields should be enabled")
	}

	email := EmailConfig{Host: "smtp.test", Username: "u", Password: "p", From: "a@test"}
	if email.Enabled() {
		t.Error("email without recipient should be disabled")
	}
}

func TestNewConfig_WebhookProvidersNeedOnlyURL(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/x")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.test/api/webhooks/1")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-ignored")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if !cfg.Notifiers.Slack.Enabled() || !cfg.Notifiers.Discord.Enabled() {
		t.Error("expected slack and discord to be enabled by their webhook URLs alone")
	}
	for _, key := range []string{"notifiers.slack.bot_token", "notifiers.discord.bot_token"} {
		if _, ok := envAliases[key]; ok {
			t.Errorf("unexpected env alias for unused key %q", key)
		}
	}
}
