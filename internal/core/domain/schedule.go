package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateFrequency is the cadence of an update schedule.
type UpdateFrequency string

const (
	FrequencyHourly UpdateFrequency = "hourly"
	FrequencyDaily  UpdateFrequency = "daily"
	FrequencyWeekly UpdateFrequency = "weekly"
	FrequencyManual UpdateFrequency = "manual"
)

// Interval returns the wall-clock duration of one cadence step. Manual
// schedules have no cadence and return 0.
func (f UpdateFrequency) Interval() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Valid reports whether f is one of the recognised cadences.
func (f UpdateFrequency) Valid() bool {
	switch f {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyManual:
		return true
	}
	return false
}

// UpdateSchedule is a named automation schedule over a list of currency
// pairs. Lifecycle: each successful run recomputes NextUpdate from the
// cadence; each failed run increments FailureCount and reschedules sooner;
// reaching MaxRetries flips IsActive to false, which requires a manual
// re-enable.
type UpdateSchedule struct {
	ScheduleID    string          `json:"scheduleID"`
	Name          string          `json:"name"`
	Frequency     UpdateFrequency `json:"frequency"`
	IsActive      bool            `json:"isActive"`
	LastUpdate    time.Time       `json:"lastUpdate"`
	NextUpdate    time.Time       `json:"nextUpdate"`
	CurrencyPairs []string        `json:"currencyPairs"` // "FROM/TO" keys
	Sources       []string        `json:"sources"`
	FailureCount  int             `json:"failureCount"`
	MaxRetries    int             `json:"maxRetries"`
}

// PairUpdateSuccess records one successfully refreshed pair within a run.
type PairUpdateSuccess struct {
	CurrencyPair     string          `json:"currencyPair"`
	PreviousRate     decimal.Decimal `json:"previousRate"`
	NewRate          decimal.Decimal `json:"newRate"`
	Source           string          `json:"source"`
	ChangePercentage decimal.Decimal `json:"changePercentage"`
}

// PairUpdateFailure records one failed pair within a run. Failures never
// abort sibling pairs.
type PairUpdateFailure struct {
	CurrencyPair string `json:"currencyPair"`
	Error        string `json:"error"`
	Source       string `json:"source"`
}

// UpdateRunSummary are the headline counts of one update run.
type UpdateRunSummary struct {
	TotalPairs         int `json:"totalPairs"`
	SuccessfulUpdates  int `json:"successfulUpdates"`
	FailedUpdates      int `json:"failedUpdates"`
	SignificantChanges int `json:"significantChanges"`
}

// UpdateRunResult is the record of one scheduled or manual update run.
type UpdateRunResult struct {
	UpdateID   string              `json:"updateID"`
	ScheduleID string              `json:"scheduleID,omitempty"` // empty for manual runs
	Timestamp  time.Time           `json:"timestamp"`
	Successful []PairUpdateSuccess `json:"successful"`
	Failed     []PairUpdateFailure `json:"failed"`
	Alerts     []RateChangeAlert   `json:"alerts"`
	Summary    UpdateRunSummary    `json:"summary"`
}

// DailyCount is a per-day frequency bucket in the update statistics.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// UpdateStatistics aggregates the retained update history over a window of
// days. Derived from the history, never tracked separately.
type UpdateStatistics struct {
	TotalRuns          int             `json:"totalRuns"`
	SuccessfulUpdates  int             `json:"successfulUpdates"`
	FailedUpdates      int             `json:"failedUpdates"`
	AverageSuccessRate decimal.Decimal `json:"averageSuccessRate"` // percentage
	MostVolatilePair   string          `json:"mostVolatilePair"`
	UpdateFrequency    []DailyCount    `json:"updateFrequency"`
	AlertFrequency     []DailyCount    `json:"alertFrequency"`
}
