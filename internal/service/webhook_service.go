package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	repo "github.com/ilindan-dev/follower-notifier/internal/domain/repository"
	"github.com/ilindan-dev/follower-notifier/internal/signature"
	"github.com/rs/zerolog"
)

// FollowerTitle is the title of every follower notification.
const FollowerTitle = "New GitHub Follower!"

// releaseTimeout bounds the cleanup call that drops a delivery claim.
const releaseTimeout = 2 * time.Second

// Broadcaster fans a notification out to the configured channels.
type Broadcaster interface {
	Notify(ctx context.Context, title, message string) (model.DispatchReport, error)
}

// Outcome describes how an accepted delivery was handled.
type Outcome string

const (
	OutcomeDelivered  Outcome = "delivered"
	OutcomeDegraded   Outcome = "degraded"
	OutcomeDuplicate  Outcome = "duplicate"
	OutcomeNoChannels Outcome = "no_channels"
)

// Result is returned for every delivery that passed verification and validation.
type Result struct {
	Outcome Outcome
	Report  model.DispatchReport
}

// WebhookService encapsulates the business logic for inbound follower events.
// It orchestrates verification, validation, deduplication and the fan-out.
type WebhookService struct {
	secret      string
	dedupeTTL   time.Duration
	broadcaster Broadcaster
	guard       repo.DeliveryGuard
	logger      zerolog.Logger
}

func NewWebhookService(
	cfg *config.Config,
	broadcaster Broadcaster,
	guard repo.DeliveryGuard,
	logger *zerolog.Logger,
) *WebhookService {
	log := logger.With().Str("layer", "service").Logger()
	if cfg.Webhook.Secret == "" {
		log.Warn().Msg("webhook secret is empty, every delivery will be rejected")
	}
	return &WebhookService{
		secret:      cfg.Webhook.Secret,
		dedupeTTL:   cfg.Webhook.DedupeTTL,
		broadcaster: broadcaster,
		guard:       guard,
		logger:      log,
	}
}

// HandleDelivery verifies the delivery against the raw payload, decides whether the
// event triggers a notification and, if so, dispatches it exactly once.
func (s *WebhookService) HandleDelivery(ctx context.Context, d model.Delivery) (Result, error) {
	log := s.logger.With().Str("delivery_id", d.ID).Str("event", d.Event).Logger()

	if err := signature.Verify(d.Payload, d.Signature, s.secret); err != nil {
		log.Warn().Err(err).Msg("webhook signature rejected")
		return Result{}, err
	}

	var event model.FollowerEvent
	if err := json.Unmarshal(d.Payload, &event); err != nil {
		log.Warn().Err(err).Msg("invalid webhook payload")
		return Result{}, fmt.Errorf("%w: malformed payload: %v", model.ErrValidation, err)
	}

	title, message, err := BuildNotification(event)
	if err != nil {
		log.Warn().Err(err).Str("action", event.Action).Msg("webhook event rejected")
		return Result{}, err
	}
	log = log.With().Str("sender", event.Sender.Login).Logger()

	claimed, duplicate := s.claim(ctx, d.ID, log)
	if duplicate {
		return Result{Outcome: OutcomeDuplicate}, nil
	}

	log.Info().Msg("new follower, dispatching notification")
	report, err := s.broadcaster.Notify(ctx, title, message)
	if err != nil {
		if claimed {
			s.release(ctx, d.ID, log)
		}
		return Result{Report: report}, err
	}

	return Result{Outcome: outcomeFor(report), Report: report}, nil
}

// BuildNotification is the dispatch decision. Only "followed" is accepted; any
// other action, including a missing one, is a validation error.
func BuildNotification(event model.FollowerEvent) (title, message string, err error) {
	if event.Action != model.ActionFollowed {
		return "", "", fmt.Errorf("%w: unsupported event action %q", model.ErrValidation, event.Action)
	}
	if event.Sender.Login == "" {
		return "", "", fmt.Errorf("%w: sender login is required", model.ErrValidation)
	}

	message = fmt.Sprintf("User %s is now following you!\nProfile: %s", event.Sender.Login, event.Sender.HTMLURL)
	return FollowerTitle, message, nil
}

// claim reports whether the delivery ID was claimed and whether it is a duplicate.
// Guard failures are logged and the delivery proceeds unclaimed.
func (s *WebhookService) claim(ctx context.Context, deliveryID string, log zerolog.Logger) (claimed, duplicate bool) {
	if deliveryID == "" {
		return false, false
	}

	ok, err := s.guard.Claim(ctx, deliveryID, s.dedupeTTL)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("delivery guard unavailable, continuing without deduplication")
		return false, false
	case !ok:
		log.Info().Msg("duplicate delivery, skipping notification")
		return false, true
	default:
		return true, false
	}
}

// release drops the claim after a total failure so a redelivery can retry.
func (s *WebhookService) release(ctx context.Context, deliveryID string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.guard.Release(ctx, deliveryID); err != nil {
		log.Error().Err(err).Msg("failed to release delivery claim")
	}
}

func outcomeFor(report model.DispatchReport) Outcome {
	switch {
	case report.Configured == 0:
		return OutcomeNoChannels
	case report.Status() == model.StatusPartialFailure:
		return OutcomeDegraded
	default:
		return OutcomeDelivered
	}
}
