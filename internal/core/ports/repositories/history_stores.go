package repositories

import (
	"context"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// ConversionHistoryStore retains successful conversions up to a bounded
// capacity. Retention policy belongs to the implementation (ring buffer,
// Redis list, external store), not to the callers.
type ConversionHistoryStore interface {
	// Append records a successful conversion, evicting the oldest entry when
	// the store is at capacity.
	Append(ctx context.Context, conversion domain.CurrencyConversion) error

	// List returns retained conversions, newest first, optionally filtered by
	// either currency code. A non-positive limit applies the store's cap.
	List(ctx context.Context, fromCode, toCode string, limit int) ([]domain.CurrencyConversion, error)
}

// UpdateHistoryStore retains one record per automation run, bounded.
type UpdateHistoryStore interface {
	// Append records a completed update run.
	Append(ctx context.Context, run domain.UpdateRunResult) error

	// List returns retained runs, newest first, capped at limit.
	List(ctx context.Context, limit int) ([]domain.UpdateRunResult, error)
}

// NotificationStore retains automation notifications, bounded.
type NotificationStore interface {
	// Append records a new notification.
	Append(ctx context.Context, notification domain.Notification) error

	// List returns notifications, newest first. When unreadOnly is true only
	// unread ones are returned.
	List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)

	// MarkRead flips the read flag of a notification. Returns
	// apperrors.ErrNotFound for an unknown ID.
	MarkRead(ctx context.Context, notificationID string) error
}
