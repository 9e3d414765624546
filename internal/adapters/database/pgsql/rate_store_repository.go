package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

// PgxRateStore implements the rate store contract using pgxpool. Current
// rates live in exchange_rates (one row per directed pair, upserted); every
// observation also lands in exchange_rate_history.
type PgxRateStore struct {
	pool *pgxpool.Pool
}

var _ portsrepo.RateStore = (*PgxRateStore)(nil)

// NewPgxRateStore creates a new PgxRateStore.
func NewPgxRateStore(pool *pgxpool.Pool) *PgxRateStore {
	return &PgxRateStore{pool: pool}
}

// FindCurrentRate retrieves the effective directly observed rate for a pair.
func (r *PgxRateStore) FindCurrentRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency_code, to_currency_code, rate, rate_date, source, created_at
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2;
	`
	rate := &domain.ExchangeRate{}
	err := r.pool.QueryRow(ctx, query, fromCode, toCode).Scan(
		&rate.ExchangeRateID, &rate.FromCurrency, &rate.ToCurrency,
		&rate.Rate, &rate.RateDate, &rate.Source, &rate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate %s/%s: %w", fromCode, toCode, err)
	}
	return rate, nil
}

// ListCurrentRates retrieves all effective directly observed rates.
func (r *PgxRateStore) ListCurrentRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency_code, to_currency_code, rate, rate_date, source, created_at
		FROM exchange_rates
		ORDER BY from_currency_code, to_currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	rates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRate, error) {
		var rate domain.ExchangeRate
		err := row.Scan(
			&rate.ExchangeRateID, &rate.FromCurrency, &rate.ToCurrency,
			&rate.Rate, &rate.RateDate, &rate.Source, &rate.CreatedAt,
		)
		return rate, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rates: %w", err)
	}
	return rates, nil
}

// ListRateHistory retrieves historical observations for a pair over the
// trailing number of days, oldest first.
func (r *PgxRateStore) ListRateHistory(ctx context.Context, fromCode, toCode string, days int) ([]domain.RateHistoryPoint, error) {
	query := `
		SELECT rate_date, rate, source
		FROM exchange_rate_history
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND rate_date >= $3
		ORDER BY rate_date ASC;
	`
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := r.pool.Query(ctx, query, fromCode, toCode, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history %s/%s: %w", fromCode, toCode, err)
	}
	defer rows.Close()

	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RateHistoryPoint, error) {
		var point domain.RateHistoryPoint
		err := row.Scan(&point.Date, &point.Rate, &point.Source)
		return point, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rate history: %w", err)
	}
	return points, nil
}

// SaveRate upserts the current rate for the pair and appends a history row,
// atomically.
func (r *PgxRateStore) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rate save: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO exchange_rates (exchange_rate_id, from_currency_code, to_currency_code, rate, rate_date, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (from_currency_code, to_currency_code) DO UPDATE SET
			rate = EXCLUDED.rate,
			rate_date = EXCLUDED.rate_date,
			source = EXCLUDED.source;
	`
	_, err = tx.Exec(ctx, upsert,
		rate.ExchangeRateID, rate.FromCurrency, rate.ToCurrency,
		rate.Rate, rate.RateDate, rate.Source, rate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rate %s: %w", rate.PairKey(), err)
	}

	history := `
		INSERT INTO exchange_rate_history (from_currency_code, to_currency_code, rate, rate_date, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, history,
		rate.FromCurrency, rate.ToCurrency, rate.Rate, rate.RateDate, rate.Source, rate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append rate history %s: %w", rate.PairKey(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rate save: %w", err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxRateStore) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, name, symbol, decimal_places, is_base
		FROM currencies
		WHERE currency_code = $1;
	`
	var currency domain.Currency
	err := r.pool.QueryRow(ctx, query, currencyCode).Scan(
		&currency.Code, &currency.Name, &currency.Symbol,
		&currency.DecimalPlaces, &currency.IsBase,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", currencyCode, err)
	}
	return &currency, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxRateStore) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, name, symbol, decimal_places, is_base
		FROM currencies
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Currency, error) {
		var currency domain.Currency
		err := row.Scan(
			&currency.Code, &currency.Name, &currency.Symbol,
			&currency.DecimalPlaces, &currency.IsBase,
		)
		return currency, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}
	return currencies, nil
}
