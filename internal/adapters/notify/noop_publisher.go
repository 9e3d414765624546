package notify

import (
	"context"
	"log/slog"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

var _ portsrepo.NotificationPublisher = (*NoopPublisher)(nil)

// NoopPublisher logs notifications instead of delivering them. Used when no
// broker is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a NoopPublisher.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish logs the notification and drops it.
func (p *NoopPublisher) Publish(ctx context.Context, notification domain.Notification) error {
	slog.InfoContext(ctx, "Notification (no delivery channel configured)",
		slog.String("type", string(notification.Type)),
		slog.String("title", notification.Title))
	return nil
}
