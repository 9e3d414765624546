package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertDirection indicates which way a rate moved.
type AlertDirection string

const (
	AlertIncrease AlertDirection = "increase"
	AlertDecrease AlertDirection = "decrease"
)

// RateChangeAlert is raised when a pair's rate moves by at least the
// configured threshold between two observations.
type RateChangeAlert struct {
	CurrencyPair     string          `json:"currencyPair"`
	PreviousRate     decimal.Decimal `json:"previousRate"`
	CurrentRate      decimal.Decimal `json:"currentRate"`
	ChangePercentage decimal.Decimal `json:"changePercentage"`
	Threshold        decimal.Decimal `json:"threshold"`
	Direction        AlertDirection  `json:"direction"`
	Timestamp        time.Time       `json:"timestamp"`
}
