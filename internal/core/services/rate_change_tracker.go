package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// divisionPrecision is the scale used for intermediate decimal division.
const divisionPrecision = 12

var oneHundred = decimal.NewFromInt(100)

// RateObservation is the outcome of feeding one fresh rate into the tracker.
type RateObservation struct {
	PreviousRate     decimal.Decimal
	ChangePercentage decimal.Decimal
	FirstObservation bool
	Alert            *domain.RateChangeAlert
}

// RateChangeTracker keeps last-known-rate state per currency pair and raises
// alerts when a configurable percentage threshold is crossed. It is a pure
// reducer over its own state and performs no I/O; the pair-keyed maps are
// guarded so observations may arrive from concurrent runs.
type RateChangeTracker struct {
	mu               sync.Mutex
	lastRates        map[string]domain.ExchangeRate
	thresholds       map[string]decimal.Decimal
	defaultThreshold decimal.Decimal
}

// NewRateChangeTracker creates a tracker with the given global default
// threshold (percent).
func NewRateChangeTracker(defaultThreshold decimal.Decimal) *RateChangeTracker {
	return &RateChangeTracker{
		lastRates:        make(map[string]domain.ExchangeRate),
		thresholds:       make(map[string]decimal.Decimal),
		defaultThreshold: defaultThreshold,
	}
}

// SetDefaultThreshold replaces the global default threshold. Per-pair
// overrides are unaffected.
func (t *RateChangeTracker) SetDefaultThreshold(threshold decimal.Decimal) error {
	if threshold.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: threshold must be positive", apperrors.ErrValidation)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultThreshold = threshold
	return nil
}

// SetThreshold overrides the alert threshold for one pair key.
func (t *RateChangeTracker) SetThreshold(pairKey string, threshold decimal.Decimal) error {
	if threshold.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: threshold must be positive", apperrors.ErrValidation)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.thresholds[pairKey] = threshold
	return nil
}

// Threshold returns the effective alert threshold for a pair key.
func (t *RateChangeTracker) Threshold(pairKey string) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	if th, ok := t.thresholds[pairKey]; ok {
		return th
	}
	return t.defaultThreshold
}

// LastRate returns the last observed rate for a pair key, if any.
func (t *RateChangeTracker) LastRate(pairKey string) (domain.ExchangeRate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rate, ok := t.lastRates[pairKey]
	return rate, ok
}

// Observe feeds a fresh rate observation into the tracker. The first
// observation for a pair only seeds the state and never alerts. The stored
// last-known rate is updated unconditionally.
func (t *RateChangeTracker) Observe(rate domain.ExchangeRate) RateObservation {
	key := rate.PairKey()

	t.mu.Lock()
	defer t.mu.Unlock()

	prev, seen := t.lastRates[key]
	t.lastRates[key] = rate

	if !seen || prev.Rate.IsZero() {
		return RateObservation{FirstObservation: true}
	}

	change := rate.Rate.Sub(prev.Rate).DivRound(prev.Rate, divisionPrecision).Mul(oneHundred)

	obs := RateObservation{
		PreviousRate:     prev.Rate,
		ChangePercentage: change,
	}

	threshold := t.defaultThreshold
	if th, ok := t.thresholds[key]; ok {
		threshold = th
	}

	if change.Abs().GreaterThanOrEqual(threshold) {
		direction := domain.AlertIncrease
		if change.IsNegative() {
			direction = domain.AlertDecrease
		}
		obs.Alert = &domain.RateChangeAlert{
			CurrencyPair:     key,
			PreviousRate:     prev.Rate,
			CurrentRate:      rate.Rate,
			ChangePercentage: change,
			Threshold:        threshold,
			Direction:        direction,
			Timestamp:        time.Now().UTC(),
		}
	}

	return obs
}
