package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/vendorbridge/currency_engine_app/internal/core/ports/services"
)

// UpdateTicker drives the automation scheduler on a fixed cadence. The tick
// interval is intentionally shorter than any schedule frequency; each tick
// only runs schedules that are actually due.
type UpdateTicker struct {
	automation portssvc.AutomationSvc
	interval   time.Duration
}

// NewUpdateTicker creates a ticker over the automation service. A
// non-positive interval defaults to one minute.
func NewUpdateTicker(automation portssvc.AutomationSvc, interval time.Duration) *UpdateTicker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &UpdateTicker{automation: automation, interval: interval}
}

// Start blocks, ticking until the context is cancelled. Tick errors are
// logged and never stop the loop.
func (t *UpdateTicker) Start(ctx context.Context) {
	slog.InfoContext(ctx, "Starting update ticker", slog.Duration("interval", t.interval))

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Update ticker stopped")
			return
		case <-ticker.C:
			results, err := t.automation.ExecuteScheduledUpdates(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Scheduled update pass failed", slog.String("error", err.Error()))
				continue
			}
			if len(results) > 0 {
				slog.InfoContext(ctx, "Scheduled update pass completed", slog.Int("runs", len(results)))
			}
		}
	}
}
