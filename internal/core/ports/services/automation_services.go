package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
)

// AutomationSvc runs named rate update schedules and manages the automation
// surface: schedules, run history, notifications and settings.
type AutomationSvc interface {
	// ExecuteScheduledUpdates runs all due schedules once. Execution is
	// mutually exclusive: a call overlapping a running pass returns
	// immediately with no results and no error.
	ExecuteScheduledUpdates(ctx context.Context) ([]domain.UpdateRunResult, error)

	// TriggerManualUpdate runs an ad hoc one-off update over the given pair
	// list (or the default pairs when empty), bypassing schedule bookkeeping.
	TriggerManualUpdate(ctx context.Context, currencyPairs []string) (*domain.UpdateRunResult, error)

	// GetUpdateSchedules lists all schedules.
	GetUpdateSchedules(ctx context.Context) ([]domain.UpdateSchedule, error)

	// CreateSchedule registers a new update schedule.
	CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*domain.UpdateSchedule, error)

	// UpdateSchedule applies a partial update to an existing schedule.
	// Re-activating a disabled schedule resets its failure counter.
	UpdateSchedule(ctx context.Context, scheduleID string, req dto.UpdateScheduleRequest) (*domain.UpdateSchedule, error)

	// DeleteSchedule removes a schedule.
	DeleteSchedule(ctx context.Context, scheduleID string) error

	// GetUpdateHistory returns retained run records, newest first.
	GetUpdateHistory(ctx context.Context, limit int) ([]domain.UpdateRunResult, error)

	// GetUpdateStatistics aggregates run history over the trailing days.
	GetUpdateStatistics(ctx context.Context, days int) (*domain.UpdateStatistics, error)

	// GetNotifications lists automation notifications, newest first.
	GetNotifications(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)

	// MarkNotificationAsRead flips a notification's read flag.
	MarkNotificationAsRead(ctx context.Context, notificationID string) error

	// GetAutomationSettings returns the current settings document.
	GetAutomationSettings(ctx context.Context) (*domain.AutomationSettings, error)

	// UpdateAutomationSettings applies a partial settings update.
	UpdateAutomationSettings(ctx context.Context, req dto.UpdateAutomationSettingsRequest) (*domain.AutomationSettings, error)

	// SetRateChangeThreshold overrides the alert threshold for one pair.
	SetRateChangeThreshold(ctx context.Context, fromCode, toCode string, threshold decimal.Decimal) error
}
