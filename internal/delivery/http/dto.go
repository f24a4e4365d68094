package http

import (
	"github.com/google/uuid"
)

// WebhookResponse defines the structure returned for an accepted webhook.
type WebhookResponse struct {
	Status     string     `json:"status"`
	DispatchID *uuid.UUID `json:"dispatch_id,omitempty"`
	Channels   int        `json:"channels"`
	Failed     int        `json:"failed"`
}

// ErrorResponse defines a standard structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
