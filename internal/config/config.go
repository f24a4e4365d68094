package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the main struct that holds all configuration for the application.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Notifiers NotifiersConfig `mapstructure:"notifiers"`
}

// LoggerConfig holds logging-specific settings.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
	// Format is "console" for human readable output or "json".
	Format string `mapstructure:"format"`
}

// HTTPConfig holds HTTP server-specific settings.
type HTTPConfig struct {
	Port          string        `mapstructure:"port"`
	GinMode       string        `mapstructure:"gin_mode"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
	MetricsEnable bool          `mapstructure:"metrics_enable"`
}

// WebhookConfig holds settings for inbound webhook verification.
type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
	// DedupeTTL is how long a delivery ID stays claimed in Redis.
	DedupeTTL time.Duration `mapstructure:"dedupe_ttl"`
}

// RedisConfig holds all settings for the Redis connection.
// An empty Addr disables delivery deduplication.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotifiersConfig holds configurations for all notification channels.
type NotifiersConfig struct {
	// Mode can be "development" or "production".
	// Outside "production", every enabled notifier is replaced by the LogNotifier.
	Mode     string         `mapstructure:"mode"`
	Timeout  time.Duration  `mapstructure:"timeout"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Discord  DiscordConfig  `mapstructure:"discord"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Email    EmailConfig    `mapstructure:"email"`
}

// SlackConfig holds settings for the Slack incoming webhook notifier.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// Enabled reports whether the Slack notifier has everything it needs.
func (c SlackConfig) Enabled() bool { return c.WebhookURL != "" }

// DiscordConfig holds settings for the Discord webhook notifier.
type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// Enabled reports whether the Discord notifier has everything it needs.
func (c DiscordConfig) Enabled() bool { return c.WebhookURL != "" }

// TelegramConfig holds settings for the Telegram notifier.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	// ChatID is a numeric chat ID or an @channel username.
	ChatID      string `mapstructure:"chat_id"`
	APIEndpoint string `mapstructure:"api_endpoint"`
}

// Enabled reports whether the Telegram notifier has everything it needs.
func (c TelegramConfig) Enabled() bool { return c.BotToken != "" && c.ChatID != "" }

// WhatsAppConfig holds settings for the WhatsApp Cloud API notifier.
type WhatsAppConfig struct {
	APIKey        string `mapstructure:"api_key"`
	PhoneNumber   string `mapstructure:"phone_number"`
	PhoneNumberID string `mapstructure:"phone_number_id"`
	APIURL        string `mapstructure:"api_url"`
}

// Enabled reports whether the WhatsApp notifier has everything it needs.
func (c WhatsAppConfig) Enabled() bool {
	return c.APIKey != "" && c.PhoneNumber != "" && c.PhoneNumberID != ""
}

// EmailConfig holds SMTP settings for the email notifier.
type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Enabled reports whether the email notifier has everything it needs.
func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.From != "" && c.To != ""
}

// envAliases maps config keys to the plain environment names used by earlier
// deployments of the service.
var envAliases = map[string][]string{
	"http.port":                          {"PORT"},
	"webhook.secret":                     {"GITHUB_WEBHOOK_SECRET"},
	"redis.addr":                         {"REDIS_ADDR"},
	"notifiers.slack.webhook_url":        {"SLACK_WEBHOOK_URL"},
	"notifiers.slack.channel":            {"SLACK_CHANNEL"},
	"notifiers.discord.webhook_url":      {"DISCORD_WEBHOOK_URL"},
	"notifiers.telegram.bot_token":       {"TELEGRAM_BOT_TOKEN"},
	"notifiers.telegram.chat_id":         {"TELEGRAM_CHAT_ID"},
	"notifiers.whatsapp.api_key":         {"WHATSAPP_API_KEY"},
	"notifiers.whatsapp.phone_number":    {"WHATSAPP_PHONE_NUMBER"},
	"notifiers.whatsapp.phone_number_id": {"WHATSAPP_PHONE_NUMBER_ID"},
	"notifiers.email.host":               {"SMTP_SERVER"},
	"notifiers.email.port":               {"SMTP_PORT"},
	"notifiers.email.username":           {"SMTP_USERNAME"},
	"notifiers.email.password":           {"SMTP_PASSWORD"},
	"notifiers.email.from":               {"FROM_EMAIL"},
	"notifiers.email.to":                 {"TO_EMAIL"},
}

// NewConfig reads configs/config.yaml when present and environment variables to
// return a configuration struct.
func NewConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		// The canonical NOTIFIERS_* style name wins over the alias.
		canonical := strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		if err := v.BindEnv(append([]string{key, canonical}, names...)...); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.HTTP.Port = normalizePort(cfg.HTTP.Port)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("http.port", ":8080")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.max_body_bytes", 1<<20)
	v.SetDefault("http.metrics_enable", true)
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.dedupe_ttl", 24*time.Hour)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("notifiers.mode", "production")
	v.SetDefault("notifiers.timeout", 10*time.Second)
	v.SetDefault("notifiers.telegram.api_endpoint", "")
	v.SetDefault("notifiers.whatsapp.api_url", "https://graph.facebook.com/v13.0")
	v.SetDefault("notifiers.email.port", 465)
}

// normalizePort accepts both "8080" and ":8080".
func normalizePort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
