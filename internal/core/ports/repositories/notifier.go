package repositories

import (
	"context"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// NotificationPublisher hands completed notifications to the external
// delivery channel (email/SMS/webhook transport is the channel's concern).
// Publish failures are logged by callers, never escalated: losing a delivery
// must not fail the run that produced it.
type NotificationPublisher interface {
	Publish(ctx context.Context, notification domain.Notification) error
}
