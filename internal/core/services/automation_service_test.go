package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vendorbridge/currency_engine_app/internal/adapters/memory"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	"github.com/vendorbridge/currency_engine_app/internal/core/services"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
	"github.com/vendorbridge/currency_engine_app/internal/infrastructure/metrics"
)

type AutomationServiceTestSuite struct {
	suite.Suite
	mockStore     *MockRateStore
	mockProvider  *MockRateProvider
	history       *memory.UpdateHistory
	notifications *memory.NotificationStore
	publisher     *MockPublisher
	service       *services.AutomationService
	clock         time.Time
}

func (suite *AutomationServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockRateStore)
	suite.mockProvider = new(MockRateProvider)
	suite.history = memory.NewUpdateHistory(50)
	suite.notifications = memory.NewNotificationStore(100)
	suite.publisher = new(MockPublisher)
	suite.clock = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	suite.mockProvider.On("Name").Return("mockfx")
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	suite.service = services.NewAutomationService(
		suite.mockStore,
		suite.mockStore,
		suite.mockProvider,
		services.NewRateChangeTracker(decimal.RequireFromString("2")),
		suite.history,
		suite.notifications,
		suite.publisher,
		metrics.NewAutomationMetrics(prometheus.NewRegistry()),
		domain.AutomationSettings{
			EnableAutomaticUpdates:    true,
			UpdateFrequency:           domain.FrequencyHourly,
			AlertThreshold:            decimal.RequireFromString("2"),
			MaxRetries:                2,
			RetryDelay:                5 * time.Minute,
			EnableNotifications:       true,
			EmergencyContactThreshold: decimal.RequireFromString("10"),
		},
		services.WithClock(func() time.Time { return suite.clock }),
		services.WithDefaultPairs([]string{"USD/EUR"}),
	)
}

func fetchedRate(from, to, rate string, at time.Time) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		ExchangeRateID: "fetched-" + from + to,
		FromCurrency:   from,
		ToCurrency:     to,
		Rate:           decimal.RequireFromString(rate),
		RateDate:       at,
		Source:         "mockfx",
		CreatedAt:      at,
	}
}

func (suite *AutomationServiceTestSuite) TestManualUpdate_Success() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, "USD", "EUR").Return(nil, apperrors.ErrNotFound)
	suite.mockStore.On("SaveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil)
	suite.mockProvider.On("FetchRate", ctx, "USD", "EUR").Return(fetchedRate("USD", "EUR", "0.85", suite.clock), nil).Once()

	run, err := suite.service.TriggerManualUpdate(ctx, []string{"USD/EUR"})

	suite.Require().NoError(err)
	suite.Empty(run.ScheduleID)
	suite.Equal(1, run.Summary.TotalPairs)
	suite.Equal(1, run.Summary.SuccessfulUpdates)
	suite.Equal(0, run.Summary.FailedUpdates)

	retained, err := suite.history.List(ctx, 0)
	suite.Require().NoError(err)
	suite.Len(retained, 1)

	stored, err := suite.notifications.List(ctx, false)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(stored)
	suite.Equal(domain.NotificationSuccess, stored[0].Type)
}

func (suite *AutomationServiceTestSuite) TestManualUpdate_MalformedPair() {
	ctx := context.Background()

	_, err := suite.service.TriggerManualUpdate(ctx, []string{"USDEUR"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AutomationServiceTestSuite) TestManualUpdate_PairFailureIsolation() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	suite.mockStore.On("SaveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil)
	suite.mockProvider.On("FetchRate", ctx, "USD", "EUR").Return(nil, apperrors.ErrTransientFetch).Once()
	suite.mockProvider.On("FetchRate", ctx, "USD", "GBP").Return(fetchedRate("USD", "GBP", "0.8", suite.clock), nil).Once()

	run, err := suite.service.TriggerManualUpdate(ctx, []string{"USD/EUR", "USD/GBP"})

	suite.Require().NoError(err)
	suite.Equal(1, run.Summary.SuccessfulUpdates)
	suite.Equal(1, run.Summary.FailedUpdates)
	suite.Require().Len(run.Failed, 1)
	suite.Equal("USD/EUR", run.Failed[0].CurrencyPair)
}

func (suite *AutomationServiceTestSuite) TestManualUpdate_AlertOnSignificantChange() {
	ctx := context.Background()
	// The tracker seeds from the stored rate, so the fetched rate measures a
	// +6.25% move against it.
	suite.mockStore.On("FindCurrentRate", ctx, "USD", "EUR").Return(storedRate("USD", "EUR", "0.80"), nil)
	suite.mockStore.On("SaveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil)
	suite.mockProvider.On("FetchRate", ctx, "USD", "EUR").Return(fetchedRate("USD", "EUR", "0.85", suite.clock), nil).Once()

	run, err := suite.service.TriggerManualUpdate(ctx, []string{"USD/EUR"})

	suite.Require().NoError(err)
	suite.Require().Len(run.Alerts, 1)
	suite.Equal(domain.AlertIncrease, run.Alerts[0].Direction)
	suite.Equal(1, run.Summary.SignificantChanges)

	stored, err := suite.notifications.List(ctx, false)
	suite.Require().NoError(err)
	var alertSeen bool
	for _, n := range stored {
		if n.Type == domain.NotificationAlert {
			alertSeen = true
		}
	}
	suite.True(alertSeen, "expected an alert notification")
}

func (suite *AutomationServiceTestSuite) TestScheduledUpdates_RunsSeededSchedules() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	suite.mockStore.On("SaveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil)
	suite.mockProvider.On("FetchRate", ctx, mock.Anything, mock.Anything).
		Return(fetchedRate("USD", "EUR", "0.85", suite.clock), nil)

	results, err := suite.service.ExecuteScheduledUpdates(ctx)

	suite.Require().NoError(err)
	suite.Len(results, 2, "both seeded schedules are due immediately")

	schedules, err := suite.service.GetUpdateSchedules(ctx)
	suite.Require().NoError(err)
	for _, schedule := range schedules {
		suite.Equal(0, schedule.FailureCount)
		suite.True(schedule.NextUpdate.After(suite.clock))
	}

	// Nothing is due on an immediate second pass.
	again, err := suite.service.ExecuteScheduledUpdates(ctx)
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *AutomationServiceTestSuite) TestScheduledUpdates_BackoffThenDisable() {
	ctx := context.Background()
	suite.mockProvider.On("FetchRate", ctx, mock.Anything, mock.Anything).Return(nil, apperrors.ErrTransientFetch)

	// First failing pass: failure counters go to 1, retries scheduled.
	results, err := suite.service.ExecuteScheduledUpdates(ctx)
	suite.Require().NoError(err)
	suite.Len(results, 2)

	schedules, err := suite.service.GetUpdateSchedules(ctx)
	suite.Require().NoError(err)
	for _, schedule := range schedules {
		suite.Equal(1, schedule.FailureCount)
		suite.True(schedule.IsActive)
		suite.Equal(suite.clock.Add(5*time.Minute), schedule.NextUpdate, "linear backoff after first failure")
	}

	// Second failing pass reaches MaxRetries=2 and disables.
	suite.clock = suite.clock.Add(6 * time.Minute)
	_, err = suite.service.ExecuteScheduledUpdates(ctx)
	suite.Require().NoError(err)

	schedules, err = suite.service.GetUpdateSchedules(ctx)
	suite.Require().NoError(err)
	for _, schedule := range schedules {
		suite.False(schedule.IsActive, "schedule %s should be disabled", schedule.Name)
	}

	stored, err := suite.notifications.List(ctx, false)
	suite.Require().NoError(err)
	var warningSeen bool
	for _, n := range stored {
		if n.Type == domain.NotificationWarning {
			warningSeen = true
		}
	}
	suite.True(warningSeen, "expected a schedule-disabled warning")

	// A disabled schedule never becomes due again on its own.
	suite.clock = suite.clock.Add(24 * time.Hour)
	results, err = suite.service.ExecuteScheduledUpdates(ctx)
	suite.Require().NoError(err)
	suite.Empty(results)
}

func (suite *AutomationServiceTestSuite) TestScheduledUpdates_GatedWhenDisabled() {
	ctx := context.Background()
	off := false
	_, err := suite.service.UpdateAutomationSettings(ctx, dto.UpdateAutomationSettingsRequest{
		EnableAutomaticUpdates: &off,
	})
	suite.Require().NoError(err)

	results, err := suite.service.ExecuteScheduledUpdates(ctx)

	suite.Require().NoError(err)
	suite.Empty(results)
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchRate")
}

func (suite *AutomationServiceTestSuite) TestScheduleCRUD() {
	ctx := context.Background()

	created, err := suite.service.CreateSchedule(ctx, dto.CreateScheduleRequest{
		Name:          "GBP watch",
		Frequency:     "daily",
		CurrencyPairs: []string{"usd/gbp"},
	})
	suite.Require().NoError(err)
	suite.Equal([]string{"USD/GBP"}, created.CurrencyPairs)
	suite.True(created.IsActive)
	suite.Equal(3, created.MaxRetries)
	suite.Equal(suite.clock, created.NextUpdate, "active schedules are due immediately")

	schedules, err := suite.service.GetUpdateSchedules(ctx)
	suite.Require().NoError(err)
	suite.Len(schedules, 3, "two seeded plus one created")

	inactive := false
	updated, err := suite.service.UpdateSchedule(ctx, created.ScheduleID, dto.UpdateScheduleRequest{IsActive: &inactive})
	suite.Require().NoError(err)
	suite.False(updated.IsActive)

	// Re-activation clears the failure counter and makes it due again.
	active := true
	updated, err = suite.service.UpdateSchedule(ctx, created.ScheduleID, dto.UpdateScheduleRequest{IsActive: &active})
	suite.Require().NoError(err)
	suite.True(updated.IsActive)
	suite.Equal(0, updated.FailureCount)
	suite.Equal(suite.clock, updated.NextUpdate)

	suite.Require().NoError(suite.service.DeleteSchedule(ctx, created.ScheduleID))
	err = suite.service.DeleteSchedule(ctx, created.ScheduleID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AutomationServiceTestSuite) TestCreateSchedule_RejectsMalformedPair() {
	ctx := context.Background()

	_, err := suite.service.CreateSchedule(ctx, dto.CreateScheduleRequest{
		Name:          "broken",
		Frequency:     "hourly",
		CurrencyPairs: []string{"USDEUR"},
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AutomationServiceTestSuite) TestUpdateStatistics() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	suite.mockStore.On("SaveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil)
	suite.mockProvider.On("FetchRate", ctx, "USD", "EUR").Return(fetchedRate("USD", "EUR", "0.85", suite.clock), nil)
	suite.mockProvider.On("FetchRate", ctx, "USD", "GBP").Return(nil, apperrors.ErrTransientFetch)

	_, err := suite.service.TriggerManualUpdate(ctx, []string{"USD/EUR", "USD/GBP"})
	suite.Require().NoError(err)

	stats, err := suite.service.GetUpdateStatistics(ctx, 7)
	suite.Require().NoError(err)
	suite.Equal(1, stats.TotalRuns)
	suite.Equal(1, stats.SuccessfulUpdates)
	suite.Equal(1, stats.FailedUpdates)
	suite.True(stats.AverageSuccessRate.Equal(decimal.RequireFromString("50")), "got %s", stats.AverageSuccessRate)
	suite.Len(stats.UpdateFrequency, 7)
	suite.Equal(1, stats.UpdateFrequency[6].Count, "run lands in the newest bucket")
}

func (suite *AutomationServiceTestSuite) TestNotificationsReadFlow() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	suite.mockStore.On("SaveRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil)
	suite.mockProvider.On("FetchRate", ctx, "USD", "EUR").Return(fetchedRate("USD", "EUR", "0.85", suite.clock), nil)

	_, err := suite.service.TriggerManualUpdate(ctx, []string{"USD/EUR"})
	suite.Require().NoError(err)

	unread, err := suite.service.GetNotifications(ctx, true)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(unread)

	suite.Require().NoError(suite.service.MarkNotificationAsRead(ctx, unread[0].NotificationID))

	unread, err = suite.service.GetNotifications(ctx, true)
	suite.Require().NoError(err)
	suite.Empty(unread)

	err = suite.service.MarkNotificationAsRead(ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AutomationServiceTestSuite) TestSettingsUpdateAndThreshold() {
	ctx := context.Background()

	threshold := decimal.RequireFromString("3.5")
	retryMinutes := 10
	updated, err := suite.service.UpdateAutomationSettings(ctx, dto.UpdateAutomationSettingsRequest{
		AlertThreshold:    &threshold,
		RetryDelayMinutes: &retryMinutes,
	})
	suite.Require().NoError(err)
	suite.True(updated.AlertThreshold.Equal(threshold))
	suite.Equal(10*time.Minute, updated.RetryDelay)

	bad := decimal.Zero
	_, err = suite.service.UpdateAutomationSettings(ctx, dto.UpdateAutomationSettingsRequest{AlertThreshold: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)

	err = suite.service.SetRateChangeThreshold(ctx, "usd", "eur", decimal.RequireFromString("5"))
	suite.Require().NoError(err)
	err = suite.service.SetRateChangeThreshold(ctx, "usd", "eur", decimal.Zero)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestAutomationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AutomationServiceTestSuite))
}
