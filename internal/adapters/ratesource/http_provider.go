package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

const defaultFetchTimeout = 10 * time.Second

var _ portsrepo.RateProvider = (*HTTPProvider)(nil)

// HTTPProvider fetches rates from a frankfurter-style JSON endpoint:
// GET {baseURL}/latest?from=USD&to=EUR returns the quoted pair under "rates".
// Transport and server errors are wrapped as transient so the scheduler
// treats them as ordinary per-pair failures.
type HTTPProvider struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider against baseURL. A non-positive timeout
// uses the default.
func NewHTTPProvider(name, baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPProvider{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in run results and notifications.
func (p *HTTPProvider) Name() string {
	return p.name
}

type latestRatesResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRate obtains a fresh rate for the pair.
func (p *HTTPProvider) FetchRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s", p.baseURL, url.QueryEscape(fromCode), url.QueryEscape(toCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrTransientFetch, p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d for %s/%s",
			apperrors.ErrTransientFetch, p.name, resp.StatusCode, fromCode, toCode)
	}

	var body latestRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %s: malformed response: %v", apperrors.ErrTransientFetch, p.name, err)
	}

	rate, ok := body.Rates[toCode]
	if !ok || !rate.IsPositive() {
		return nil, fmt.Errorf("%w: %s quotes no usable rate for %s/%s",
			apperrors.ErrNotFound, p.name, fromCode, toCode)
	}

	now := time.Now().UTC()
	rateDate := now
	if parsed, err := time.Parse("2006-01-02", body.Date); err == nil {
		rateDate = parsed
	}

	return &domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		FromCurrency:   fromCode,
		ToCurrency:     toCode,
		Rate:           rate,
		RateDate:       rateDate,
		Source:         p.name,
		CreatedAt:      now,
	}, nil
}
