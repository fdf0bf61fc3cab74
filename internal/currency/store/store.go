package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/planora/internal/currency"
)

// Store keeps observed rates in exchange_rates(currency, rate, observed_on),
// unique on (currency, observed_on).
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) LatestRate(ctx context.Context, code string) (*currency.Rate, error) {
	query := `
		SELECT currency, rate, observed_on
		FROM exchange_rates
		WHERE currency = $1
		ORDER BY observed_on DESC
		LIMIT 1
	`

	var r currency.Rate

	err := s.db.QueryRowContext(ctx, query, code).Scan(&r.Currency, &r.Value, &r.ObservedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, currency.ErrRateNotFound
		}

		return nil, fmt.Errorf("getting latest rate: %w", err)
	}

	return &r, nil
}

// SaveRates upserts rates in one transaction and returns how many rows were written.
func (s *Store) SaveRates(ctx context.Context, rates []currency.Rate) (int, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO exchange_rates (currency, rate, observed_on, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (currency, observed_on) DO UPDATE SET rate = EXCLUDED.rate
	`

	written := 0

	for _, r := range rates {
		res, err := dbTx.ExecContext(ctx, query, r.Currency, r.Value, r.ObservedOn)
		if err != nil {
			return 0, fmt.Errorf("saving %s rate: %w", r.Currency, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting saved rates: %w", err)
		}

		written += int(n)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rates: %w", err)
	}

	return written, nil
}
