package notifiers

import (
	"context"

	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
)

// Notifier defines the interface for any notification sending service.
// This allows us to easily swap or add new notification channels (e.g., SMS, Matrix).
type Notifier interface {
	// Provider returns the channel kind this notifier delivers to.
	Provider() model.Provider

	// Send delivers one notification with a single outbound call. It does not retry.
	Send(ctx context.Context, title, message string) error
}
