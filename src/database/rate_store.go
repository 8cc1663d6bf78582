package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrRateNotStored is returned by RateStore.Get on a miss.
var ErrRateNotStored = errors.New("rate not stored")

// RateStore persists resolved exchange rates keyed by currency and day.
type RateStore struct {
	db *sql.DB
}

func NewRateStore(db *sql.DB) *RateStore {
	return &RateStore{db: db}
}

// Get returns the stored rate for currency on dayKey (YYYYMMDD).
func (s *RateStore) Get(ctx context.Context, currency, dayKey string) (float64, error) {
	var rate float64
	err := s.db.QueryRowContext(ctx,
		`SELECT rate FROM exchange_rates WHERE currency = ? AND rate_date = ?`,
		strings.ToUpper(currency), dayKey,
	).Scan(&rate)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRateNotStored
	}
	if err != nil {
		return 0, fmt.Errorf("error querying rate %s/%s: %w", currency, dayKey, err)
	}
	return rate, nil
}

// Put stores or replaces a rate.
func (s *RateStore) Put(ctx context.Context, currency, dayKey string, rate float64, source string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchange_rates (currency, rate_date, rate, source, fetched_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(currency, rate_date) DO UPDATE SET rate = excluded.rate, source = excluded.source, fetched_at = excluded.fetched_at`,
		strings.ToUpper(currency), dayKey, rate, source, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("error storing rate %s/%s: %w", currency, dayKey, err)
	}
	return nil
}

// Count returns the number of stored rates.
func (s *RateStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchange_rates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting rates: %w", err)
	}
	return n, nil
}
