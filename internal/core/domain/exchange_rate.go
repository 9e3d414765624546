package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rate source identifiers for rates the engine derives itself rather than
// observes. Directly observed rates carry the identifier of their provider.
const (
	RateSourceSystem     = "system"     // same-currency identity rate
	RateSourceCalculated = "calculated" // two-hop cross rate through the base currency
)

// ExchangeRate stores the conversion rate between two currencies.
// Rate is the amount of ToCurrency per 1 unit of FromCurrency.
// Note: only directly observed rates are persisted; inverse and cross rates
// are derived on every lookup and carry Derived=true.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	FromCurrency   string          `json:"fromCurrency"`
	ToCurrency     string          `json:"toCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	RateDate       time.Time       `json:"rateDate"`
	Source         string          `json:"source"`
	Derived        bool            `json:"derived"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// PairKey returns the canonical "FROM/TO" key for this rate.
func (r ExchangeRate) PairKey() string {
	return PairKey(r.FromCurrency, r.ToCurrency)
}

// PairKey builds the canonical "FROM/TO" key for a currency pair.
func PairKey(fromCode, toCode string) string {
	return fromCode + "/" + toCode
}

// SplitPair parses a "FROM/TO" pair key. ok is false when the key is not of
// the expected two-part form.
func SplitPair(pair string) (fromCode, toCode string, ok bool) {
	parts := strings.Split(pair, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// RateHistoryPoint is a single historical observation for a currency pair.
type RateHistoryPoint struct {
	Date   time.Time       `json:"date"`
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source"`
}
