package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
	"github.com/vendorbridge/currency_engine_app/internal/infrastructure/metrics"
)

const (
	defaultMaxRetries       = 3
	defaultUpdateHistoryCap = 50
)

// defaultCurrencyPairs back manual runs without an explicit pair list and the
// seeded daily schedule.
var defaultCurrencyPairs = []string{
	"USD/EUR", "USD/GBP", "USD/JPY", "USD/CAD", "USD/AUD", "USD/CHF",
	"EUR/GBP", "EUR/JPY", "GBP/JPY",
}

// majorCurrencyPairs back the seeded hourly schedule.
var majorCurrencyPairs = []string{"USD/EUR", "USD/GBP", "USD/JPY", "EUR/GBP"}

// AutomationService owns the rate update lifecycle: it runs due schedules,
// fetches fresh rates from the external provider, lands them in the rate
// store, feeds the change tracker and produces notifications. Schedules and
// settings live in memory; run records go to the bounded history store.
type AutomationService struct {
	store         portsrepo.RateStoreFacade
	writer        portsrepo.RateStoreWriter
	provider      portsrepo.RateProvider
	tracker       *RateChangeTracker
	history       portsrepo.UpdateHistoryStore
	notifications portsrepo.NotificationStore
	publisher     portsrepo.NotificationPublisher
	metrics       *metrics.AutomationMetrics

	mu        sync.RWMutex
	settings  domain.AutomationSettings
	schedules []*domain.UpdateSchedule

	running atomic.Bool
	now     func() time.Time
	pairs   []string
}

// AutomationOption customises an AutomationService at construction.
type AutomationOption func(*AutomationService)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) AutomationOption {
	return func(s *AutomationService) { s.now = now }
}

// WithDefaultPairs replaces the built-in default pair list.
func WithDefaultPairs(pairs []string) AutomationOption {
	return func(s *AutomationService) { s.pairs = pairs }
}

// NewAutomationService creates the scheduler with the given collaborators and
// initial settings, and seeds the two stock schedules.
func NewAutomationService(
	store portsrepo.RateStoreFacade,
	writer portsrepo.RateStoreWriter,
	provider portsrepo.RateProvider,
	tracker *RateChangeTracker,
	history portsrepo.UpdateHistoryStore,
	notifications portsrepo.NotificationStore,
	publisher portsrepo.NotificationPublisher,
	automationMetrics *metrics.AutomationMetrics,
	settings domain.AutomationSettings,
	opts ...AutomationOption,
) *AutomationService {
	s := &AutomationService{
		store:         store,
		writer:        writer,
		provider:      provider,
		tracker:       tracker,
		history:       history,
		notifications: notifications,
		publisher:     publisher,
		metrics:       automationMetrics,
		settings:      settings,
		now:           func() time.Time { return time.Now().UTC() },
		pairs:         defaultCurrencyPairs,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seedDefaultSchedules()
	return s
}

// seedDefaultSchedules registers the stock hourly and daily schedules. Both
// are due immediately so a fresh deployment converges on first tick.
func (s *AutomationService) seedDefaultSchedules() {
	now := s.now()
	maxRetries := s.settings.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	s.schedules = []*domain.UpdateSchedule{
		{
			ScheduleID:    uuid.NewString(),
			Name:          "Hourly Major Currencies",
			Frequency:     domain.FrequencyHourly,
			IsActive:      true,
			NextUpdate:    now,
			CurrencyPairs: append([]string(nil), majorCurrencyPairs...),
			Sources:       []string{s.provider.Name()},
			MaxRetries:    maxRetries,
		},
		{
			ScheduleID:    uuid.NewString(),
			Name:          "Daily All Currencies",
			Frequency:     domain.FrequencyDaily,
			IsActive:      true,
			NextUpdate:    now,
			CurrencyPairs: append([]string(nil), s.pairs...),
			Sources:       []string{s.provider.Name()},
			MaxRetries:    maxRetries,
		},
	}
}

// ExecuteScheduledUpdates runs every due schedule once, sequentially. A call
// that overlaps an in-flight pass is skipped rather than queued. Gating
// (automation disabled, business hours, weekends) skips the whole pass.
func (s *AutomationService) ExecuteScheduledUpdates(ctx context.Context) ([]domain.UpdateRunResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		slog.InfoContext(ctx, "Skipping scheduled update pass, previous pass still running")
		return nil, nil
	}
	defer s.running.Store(false)

	settings := s.snapshotSettings()
	now := s.now()
	if !settings.EnableAutomaticUpdates || !s.withinUpdateWindow(settings, now) {
		return nil, nil
	}

	due := s.dueSchedules(now)
	results := make([]domain.UpdateRunResult, 0, len(due))
	for _, scheduleID := range due {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		schedule := s.scheduleSnapshot(scheduleID)
		if schedule == nil {
			continue
		}

		started := s.now()
		run := s.runPairs(ctx, schedule.CurrencyPairs, schedule.ScheduleID)
		s.metrics.RunDuration.Observe(s.now().Sub(started).Seconds())

		s.recordRunOutcome(ctx, settings, schedule, run)

		if err := s.history.Append(ctx, *run); err != nil {
			slog.WarnContext(ctx, "Failed to append update run to history",
				slog.String("update_id", run.UpdateID),
				slog.String("error", err.Error()))
		}
		results = append(results, *run)
	}

	return results, nil
}

// TriggerManualUpdate runs an ad hoc update over the given pairs, or the
// default pair list when none are given. Manual runs bypass schedule
// bookkeeping and gating.
func (s *AutomationService) TriggerManualUpdate(ctx context.Context, currencyPairs []string) (*domain.UpdateRunResult, error) {
	if len(currencyPairs) == 0 {
		currencyPairs = s.pairs
	}
	for _, pair := range currencyPairs {
		if _, _, ok := domain.SplitPair(pair); !ok {
			return nil, fmt.Errorf("%w: malformed currency pair %q", apperrors.ErrValidation, pair)
		}
	}

	settings := s.snapshotSettings()
	started := s.now()
	run := s.runPairs(ctx, currencyPairs, "")
	s.metrics.RunDuration.Observe(s.now().Sub(started).Seconds())

	outcome := "success"
	if run.Summary.SuccessfulUpdates == 0 && run.Summary.TotalPairs > 0 {
		outcome = "failure"
	}
	s.metrics.RunsTotal.WithLabelValues("manual", outcome).Inc()

	s.notifyRunResult(ctx, settings, "Manual update", run)

	if err := s.history.Append(ctx, *run); err != nil {
		slog.WarnContext(ctx, "Failed to append update run to history",
			slog.String("update_id", run.UpdateID),
			slog.String("error", err.Error()))
	}
	return run, nil
}

// runPairs refreshes each pair independently: a pair failure never aborts its
// siblings, while context cancellation abandons the remaining pairs.
func (s *AutomationService) runPairs(ctx context.Context, pairs []string, scheduleID string) *domain.UpdateRunResult {
	run := &domain.UpdateRunResult{
		UpdateID:   uuid.NewString(),
		ScheduleID: scheduleID,
		Timestamp:  s.now(),
		Successful: make([]domain.PairUpdateSuccess, 0, len(pairs)),
		Failed:     make([]domain.PairUpdateFailure, 0),
		Alerts:     make([]domain.RateChangeAlert, 0),
	}

	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}

		fromCode, toCode, ok := domain.SplitPair(pair)
		if !ok {
			run.Failed = append(run.Failed, domain.PairUpdateFailure{
				CurrencyPair: pair,
				Error:        "malformed currency pair",
				Source:       s.provider.Name(),
			})
			s.metrics.PairUpdatesTotal.WithLabelValues("failure").Inc()
			continue
		}

		fresh, err := s.provider.FetchRate(ctx, fromCode, toCode)
		if err != nil {
			run.Failed = append(run.Failed, domain.PairUpdateFailure{
				CurrencyPair: pair,
				Error:        err.Error(),
				Source:       s.provider.Name(),
			})
			s.metrics.PairUpdatesTotal.WithLabelValues("failure").Inc()
			continue
		}

		if err := s.writer.SaveRate(ctx, *fresh); err != nil {
			slog.WarnContext(ctx, "Failed to persist fetched rate",
				slog.String("currency_pair", pair),
				slog.String("error", err.Error()))
		}

		// Seed the tracker from the stored rate so the first fetch after a
		// restart still measures a change instead of silently rebaselining.
		key := domain.PairKey(fromCode, toCode)
		if _, seen := s.tracker.LastRate(key); !seen {
			if stored, err := s.store.FindCurrentRate(ctx, fromCode, toCode); err == nil && !stored.Rate.Equal(fresh.Rate) {
				s.tracker.Observe(*stored)
			} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				slog.WarnContext(ctx, "Failed to seed rate tracker",
					slog.String("currency_pair", pair),
					slog.String("error", err.Error()))
			}
		}

		obs := s.tracker.Observe(*fresh)
		run.Successful = append(run.Successful, domain.PairUpdateSuccess{
			CurrencyPair:     key,
			PreviousRate:     obs.PreviousRate,
			NewRate:          fresh.Rate,
			Source:           fresh.Source,
			ChangePercentage: obs.ChangePercentage,
		})
		s.metrics.PairUpdatesTotal.WithLabelValues("success").Inc()

		if obs.Alert != nil {
			run.Alerts = append(run.Alerts, *obs.Alert)
		}
	}

	run.Summary = domain.UpdateRunSummary{
		TotalPairs:         len(pairs),
		SuccessfulUpdates:  len(run.Successful),
		FailedUpdates:      len(run.Failed),
		SignificantChanges: len(run.Alerts),
	}
	return run
}

// recordRunOutcome applies schedule bookkeeping for one scheduled run and
// emits its notifications. A run with zero successful pairs counts as a
// whole-run failure: the failure counter grows and the retry is pushed out
// linearly until the schedule exhausts its retries and is disabled.
func (s *AutomationService) recordRunOutcome(ctx context.Context, settings domain.AutomationSettings, snapshot *domain.UpdateSchedule, run *domain.UpdateRunResult) {
	now := s.now()
	systemicFailure := run.Summary.SuccessfulUpdates == 0 && run.Summary.TotalPairs > 0

	s.mu.Lock()
	schedule := s.findScheduleLocked(snapshot.ScheduleID)
	var disabled bool
	if schedule != nil {
		if systemicFailure {
			schedule.FailureCount++
			if schedule.FailureCount >= schedule.MaxRetries {
				schedule.IsActive = false
				disabled = true
			} else {
				schedule.NextUpdate = now.Add(settings.RetryDelay * time.Duration(schedule.FailureCount))
			}
		} else {
			schedule.FailureCount = 0
			schedule.LastUpdate = now
			schedule.NextUpdate = now.Add(schedule.Frequency.Interval())
		}
	}
	s.mu.Unlock()

	outcome := "success"
	if systemicFailure {
		outcome = "failure"
	}
	s.metrics.RunsTotal.WithLabelValues("scheduled", outcome).Inc()

	if disabled {
		s.metrics.SchedulesDisabled.Inc()
		s.notify(ctx, settings, domain.NotificationWarning,
			fmt.Sprintf("Schedule disabled: %s", snapshot.Name),
			fmt.Sprintf("Schedule %q was disabled after %d consecutive failed runs. Re-enable it once the rate source is healthy.", snapshot.Name, snapshot.FailureCount+1),
			map[string]any{"scheduleID": snapshot.ScheduleID})
		err := fmt.Errorf("%w: schedule %s exhausted %d retries", apperrors.ErrScheduleExhausted, snapshot.ScheduleID, snapshot.MaxRetries)
		slog.ErrorContext(ctx, "Schedule disabled", slog.String("error", err.Error()))
	}

	s.notifyRunResult(ctx, settings, fmt.Sprintf("Scheduled update: %s", snapshot.Name), run)
}

// notifyRunResult emits the success or failure notification for one run plus
// one notification per raised alert, escalating past the emergency threshold.
func (s *AutomationService) notifyRunResult(ctx context.Context, settings domain.AutomationSettings, title string, run *domain.UpdateRunResult) {
	if run.Summary.SuccessfulUpdates == 0 && run.Summary.TotalPairs > 0 {
		s.notify(ctx, settings, domain.NotificationFailure,
			fmt.Sprintf("%s failed", title),
			fmt.Sprintf("All %d currency pairs failed to update.", run.Summary.TotalPairs),
			map[string]any{"updateID": run.UpdateID})
	} else {
		s.notify(ctx, settings, domain.NotificationSuccess,
			fmt.Sprintf("%s completed", title),
			fmt.Sprintf("Updated %d of %d currency pairs (%d failed, %d significant changes).",
				run.Summary.SuccessfulUpdates, run.Summary.TotalPairs,
				run.Summary.FailedUpdates, run.Summary.SignificantChanges),
			map[string]any{"updateID": run.UpdateID})
	}

	for _, alert := range run.Alerts {
		severity := "alert"
		alertTitle := fmt.Sprintf("Rate alert: %s", alert.CurrencyPair)
		payload := map[string]any{
			"currencyPair":     alert.CurrencyPair,
			"previousRate":     alert.PreviousRate.String(),
			"currentRate":      alert.CurrentRate.String(),
			"changePercentage": alert.ChangePercentage.String(),
			"direction":        string(alert.Direction),
		}
		if settings.EmergencyContactThreshold.IsPositive() &&
			alert.ChangePercentage.Abs().GreaterThanOrEqual(settings.EmergencyContactThreshold) {
			severity = "emergency"
			alertTitle = fmt.Sprintf("EMERGENCY rate movement: %s", alert.CurrencyPair)
			payload["emergency"] = true
		}
		s.metrics.AlertsTotal.WithLabelValues(severity).Inc()

		s.notify(ctx, settings, domain.NotificationAlert, alertTitle,
			fmt.Sprintf("%s moved %s%% (threshold %s%%), from %s to %s.",
				alert.CurrencyPair, alert.ChangePercentage.StringFixed(2), alert.Threshold.String(),
				alert.PreviousRate.String(), alert.CurrentRate.String()),
			payload)
	}
}

// notify stores and publishes one notification. Store and publish failures
// are logged; the run that produced the notification is never failed by them.
func (s *AutomationService) notify(ctx context.Context, settings domain.AutomationSettings, nType domain.NotificationType, title, message string, payload map[string]any) {
	if !settings.EnableNotifications {
		return
	}

	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		Type:           nType,
		Title:          title,
		Message:        message,
		Timestamp:      s.now(),
		Payload:        payload,
		Recipients:     settings.NotificationRecipients,
	}

	if err := s.notifications.Append(ctx, notification); err != nil {
		slog.WarnContext(ctx, "Failed to store notification",
			slog.String("notification_id", notification.NotificationID),
			slog.String("error", err.Error()))
	}
	if err := s.publisher.Publish(ctx, notification); err != nil {
		slog.WarnContext(ctx, "Failed to publish notification",
			slog.String("notification_id", notification.NotificationID),
			slog.String("error", err.Error()))
	}
}

// GetUpdateSchedules lists all schedules in registration order.
func (s *AutomationService) GetUpdateSchedules(ctx context.Context) ([]domain.UpdateSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schedules := make([]domain.UpdateSchedule, len(s.schedules))
	for i, schedule := range s.schedules {
		schedules[i] = *schedule
	}
	return schedules, nil
}

// CreateSchedule registers a new schedule. Active non-manual schedules are
// due immediately.
func (s *AutomationService) CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*domain.UpdateSchedule, error) {
	frequency := domain.UpdateFrequency(req.Frequency)
	if !frequency.Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", apperrors.ErrValidation, req.Frequency)
	}
	pairs, err := normalizePairList(req.CurrencyPairs)
	if err != nil {
		return nil, err
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	sources := req.Sources
	if len(sources) == 0 {
		sources = []string{s.provider.Name()}
	}

	schedule := &domain.UpdateSchedule{
		ScheduleID:    uuid.NewString(),
		Name:          req.Name,
		Frequency:     frequency,
		IsActive:      isActive,
		CurrencyPairs: pairs,
		Sources:       sources,
		MaxRetries:    maxRetries,
	}
	if isActive && frequency != domain.FrequencyManual {
		schedule.NextUpdate = s.now()
	}

	s.mu.Lock()
	s.schedules = append(s.schedules, schedule)
	s.mu.Unlock()

	result := *schedule
	return &result, nil
}

// UpdateSchedule applies a partial update. Re-activating a disabled schedule
// clears its failure count and makes it due immediately.
func (s *AutomationService) UpdateSchedule(ctx context.Context, scheduleID string, req dto.UpdateScheduleRequest) (*domain.UpdateSchedule, error) {
	var pairs []string
	if req.CurrencyPairs != nil {
		var err error
		pairs, err = normalizePairList(*req.CurrencyPairs)
		if err != nil {
			return nil, err
		}
	}
	if req.Frequency != nil && !domain.UpdateFrequency(*req.Frequency).Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", apperrors.ErrValidation, *req.Frequency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.findScheduleLocked(scheduleID)
	if schedule == nil {
		return nil, fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, scheduleID)
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.Frequency != nil {
		schedule.Frequency = domain.UpdateFrequency(*req.Frequency)
	}
	if pairs != nil {
		schedule.CurrencyPairs = pairs
	}
	if req.Sources != nil {
		schedule.Sources = *req.Sources
	}
	if req.MaxRetries != nil {
		schedule.MaxRetries = *req.MaxRetries
	}
	if req.IsActive != nil {
		if *req.IsActive && !schedule.IsActive {
			schedule.FailureCount = 0
			if schedule.Frequency != domain.FrequencyManual {
				schedule.NextUpdate = s.now()
			}
		}
		schedule.IsActive = *req.IsActive
	}

	result := *schedule
	return &result, nil
}

// DeleteSchedule removes a schedule.
func (s *AutomationService) DeleteSchedule(ctx context.Context, scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, schedule := range s.schedules {
		if schedule.ScheduleID == scheduleID {
			s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, scheduleID)
}

// GetUpdateHistory returns retained run records, newest first.
func (s *AutomationService) GetUpdateHistory(ctx context.Context, limit int) ([]domain.UpdateRunResult, error) {
	if limit <= 0 {
		limit = defaultUpdateHistoryCap
	}
	runs, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list update history: %w", err)
	}
	return runs, nil
}

// GetUpdateStatistics aggregates the run history over the trailing window.
// The most volatile pair is the one with the largest cumulative absolute
// change across successful updates in the window.
func (s *AutomationService) GetUpdateStatistics(ctx context.Context, days int) (*domain.UpdateStatistics, error) {
	if days <= 0 {
		days = 30
	}

	runs, err := s.history.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list update history: %w", err)
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -days)
	stats := &domain.UpdateStatistics{AverageSuccessRate: decimal.Zero}

	volatility := make(map[string]decimal.Decimal)
	runsByDay := make(map[string]int)
	alertsByDay := make(map[string]int)

	for _, run := range runs {
		if run.Timestamp.Before(cutoff) {
			continue
		}
		day := run.Timestamp.UTC().Format("2006-01-02")

		stats.TotalRuns++
		stats.SuccessfulUpdates += run.Summary.SuccessfulUpdates
		stats.FailedUpdates += run.Summary.FailedUpdates
		runsByDay[day]++
		alertsByDay[day] += len(run.Alerts)

		for _, success := range run.Successful {
			volatility[success.CurrencyPair] = volatility[success.CurrencyPair].Add(success.ChangePercentage.Abs())
		}
	}

	if total := stats.SuccessfulUpdates + stats.FailedUpdates; total > 0 {
		stats.AverageSuccessRate = decimal.NewFromInt(int64(stats.SuccessfulUpdates)).
			DivRound(decimal.NewFromInt(int64(total)), divisionPrecision).Mul(oneHundred).Round(2)
	}

	maxVolatility := decimal.Zero
	for pair, total := range volatility {
		if total.GreaterThan(maxVolatility) || (total.Equal(maxVolatility) && stats.MostVolatilePair != "" && pair < stats.MostVolatilePair) {
			maxVolatility = total
			stats.MostVolatilePair = pair
		}
	}

	stats.UpdateFrequency = make([]domain.DailyCount, 0, days)
	stats.AlertFrequency = make([]domain.DailyCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).UTC().Format("2006-01-02")
		stats.UpdateFrequency = append(stats.UpdateFrequency, domain.DailyCount{Date: day, Count: runsByDay[day]})
		stats.AlertFrequency = append(stats.AlertFrequency, domain.DailyCount{Date: day, Count: alertsByDay[day]})
	}

	return stats, nil
}

// GetNotifications lists automation notifications, newest first.
func (s *AutomationService) GetNotifications(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	notifications, err := s.notifications.List(ctx, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationAsRead flips a notification's read flag.
func (s *AutomationService) MarkNotificationAsRead(ctx context.Context, notificationID string) error {
	return s.notifications.MarkRead(ctx, notificationID)
}

// GetAutomationSettings returns a copy of the current settings document.
func (s *AutomationService) GetAutomationSettings(ctx context.Context) (*domain.AutomationSettings, error) {
	settings := s.snapshotSettings()
	return &settings, nil
}

// UpdateAutomationSettings applies a partial settings update. Changing the
// alert threshold also rebases the tracker's default threshold.
func (s *AutomationService) UpdateAutomationSettings(ctx context.Context, req dto.UpdateAutomationSettingsRequest) (*domain.AutomationSettings, error) {
	if req.AlertThreshold != nil && req.AlertThreshold.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: alert threshold must be positive", apperrors.ErrValidation)
	}
	if req.EmergencyContactThreshold != nil && req.EmergencyContactThreshold.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: emergency threshold must be positive", apperrors.ErrValidation)
	}
	if req.UpdateFrequency != nil && !domain.UpdateFrequency(*req.UpdateFrequency).Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", apperrors.ErrValidation, *req.UpdateFrequency)
	}

	s.mu.Lock()
	if req.EnableAutomaticUpdates != nil {
		s.settings.EnableAutomaticUpdates = *req.EnableAutomaticUpdates
	}
	if req.UpdateFrequency != nil {
		s.settings.UpdateFrequency = domain.UpdateFrequency(*req.UpdateFrequency)
	}
	if req.AlertThreshold != nil {
		s.settings.AlertThreshold = *req.AlertThreshold
	}
	if req.MaxRetries != nil {
		s.settings.MaxRetries = *req.MaxRetries
	}
	if req.RetryDelayMinutes != nil {
		s.settings.RetryDelay = time.Duration(*req.RetryDelayMinutes) * time.Minute
	}
	if req.EnableNotifications != nil {
		s.settings.EnableNotifications = *req.EnableNotifications
	}
	if req.NotificationRecipients != nil {
		s.settings.NotificationRecipients = *req.NotificationRecipients
	}
	if req.BusinessHoursOnly != nil {
		s.settings.BusinessHoursOnly = *req.BusinessHoursOnly
	}
	if req.BusinessHours != nil {
		s.settings.BusinessHours = *req.BusinessHours
	}
	if req.ExcludeWeekends != nil {
		s.settings.ExcludeWeekends = *req.ExcludeWeekends
	}
	if req.EmergencyContactThreshold != nil {
		s.settings.EmergencyContactThreshold = *req.EmergencyContactThreshold
	}
	settings := s.settings
	s.mu.Unlock()

	if req.AlertThreshold != nil {
		if err := s.tracker.SetDefaultThreshold(*req.AlertThreshold); err != nil {
			return nil, err
		}
	}

	return &settings, nil
}

// SetRateChangeThreshold overrides the alert threshold for one pair.
func (s *AutomationService) SetRateChangeThreshold(ctx context.Context, fromCode, toCode string, threshold decimal.Decimal) error {
	fromCode, toCode, err := normalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return err
	}
	return s.tracker.SetThreshold(domain.PairKey(fromCode, toCode), threshold)
}

func (s *AutomationService) snapshotSettings() domain.AutomationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// dueSchedules returns the IDs of active non-manual schedules whose next
// update time has passed.
func (s *AutomationService) dueSchedules(now time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	due := make([]string, 0, len(s.schedules))
	for _, schedule := range s.schedules {
		if schedule.IsActive && schedule.Frequency != domain.FrequencyManual && !schedule.NextUpdate.After(now) {
			due = append(due, schedule.ScheduleID)
		}
	}
	return due
}

func (s *AutomationService) scheduleSnapshot(scheduleID string) *domain.UpdateSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if schedule := s.findScheduleLocked(scheduleID); schedule != nil {
		snapshot := *schedule
		return &snapshot
	}
	return nil
}

func (s *AutomationService) findScheduleLocked(scheduleID string) *domain.UpdateSchedule {
	for _, schedule := range s.schedules {
		if schedule.ScheduleID == scheduleID {
			return schedule
		}
	}
	return nil
}

// withinUpdateWindow applies the business-hours and weekend gates. A window
// that cannot be interpreted (bad timezone or time string) does not block
// updates.
func (s *AutomationService) withinUpdateWindow(settings domain.AutomationSettings, now time.Time) bool {
	if settings.ExcludeWeekends {
		switch now.Weekday() {
		case time.Saturday, time.Sunday:
			return false
		}
	}
	if !settings.BusinessHoursOnly {
		return true
	}

	loc, err := time.LoadLocation(settings.BusinessHours.Timezone)
	if err != nil {
		slog.Warn("Unparseable business hours timezone, not gating updates",
			slog.String("timezone", settings.BusinessHours.Timezone))
		return true
	}
	local := now.In(loc)

	start, errStart := parseClock(settings.BusinessHours.Start)
	end, errEnd := parseClock(settings.BusinessHours.End)
	if errStart != nil || errEnd != nil {
		slog.Warn("Unparseable business hours window, not gating updates",
			slog.String("start", settings.BusinessHours.Start),
			slog.String("end", settings.BusinessHours.End))
		return true
	}

	minutes := local.Hour()*60 + local.Minute()
	return minutes >= start && minutes < end
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// normalizePairList uppercases and validates a list of "FROM/TO" pair keys.
func normalizePairList(pairs []string) ([]string, error) {
	normalized := make([]string, len(pairs))
	for i, pair := range pairs {
		fromCode, toCode, ok := domain.SplitPair(strings.ToUpper(strings.TrimSpace(pair)))
		if !ok {
			return nil, fmt.Errorf("%w: malformed currency pair %q", apperrors.ErrValidation, pair)
		}
		normalized[i] = domain.PairKey(fromCode, toCode)
	}
	return normalized, nil
}
