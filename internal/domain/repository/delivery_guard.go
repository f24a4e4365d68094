package repository

import (
	"context"
	"time"
)

// DeliveryGuard defines the contract for suppressing redelivered webhooks.
type DeliveryGuard interface {
	// Claim marks a delivery ID as being handled for ttl. It reports false when the
	// ID was already claimed.
	Claim(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)

	// Release drops a claim so the same delivery can be processed again.
	Release(ctx context.Context, deliveryID string) error
}

// NoopDeliveryGuard accepts every delivery. It is used when no Redis is configured.
type NoopDeliveryGuard struct{}

// Claim implements DeliveryGuard.
func (NoopDeliveryGuard) Claim(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

// Release implements DeliveryGuard.
func (NoopDeliveryGuard) Release(context.Context, string) error {
	return nil
}
