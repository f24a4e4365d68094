package model

// Provider identifies a notification channel kind (e.g., slack, telegram).
type Provider string

const (
	ProviderSlack    Provider = "slack"
	ProviderDiscord  Provider = "discord"
	ProviderTelegram Provider = "telegram"
	ProviderWhatsApp Provider = "whatsapp"
	ProviderEmail    Provider = "email"
)

// Providers lists every supported provider kind.
func Providers() []Provider {
	return []Provider{ProviderSlack, ProviderDiscord, ProviderTelegram, ProviderWhatsApp, ProviderEmail}
}
