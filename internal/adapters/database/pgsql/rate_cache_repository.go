package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateCacheRepository implements ports' RateCacheRepositoryFacade using
// pgxpool. One row per (from, to, day); entries never expire since a
// historical day's rate is immutable.
type PgxRateCacheRepository struct {
	BaseRepository
}

// NewPgxRateCacheRepository creates a new PgxRateCacheRepository.
func NewPgxRateCacheRepository(db *pgxpool.Pool) *PgxRateCacheRepository {
	return &PgxRateCacheRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetRate retrieves the cached rate for (from, to, day).
func (r *PgxRateCacheRepository) GetRate(ctx context.Context, from, to string, day domain.Day) (*domain.RateEntry, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	query := `
		SELECT from_currency_code, to_currency_code, day, rate, fetched_at
		FROM exchange_rate_cache
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND day = $3;
	`

	var entry domain.RateEntry
	var dayVal time.Time
	err := r.Pool.QueryRow(ctx, query, from, to, day.Time()).Scan(
		&entry.FromCurrencyCode, &entry.ToCurrencyCode, &dayVal, &entry.Rate, &entry.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no cached rate for %s/%s on %s", apperrors.ErrNotFound, from, to, day)
		}
		return nil, fmt.Errorf("failed to query rate cache: %w", err)
	}
	entry.Day = domain.DayOf(dayVal.UTC())
	return &entry, nil
}

// PutRate upserts the entry by its (from, to, day) key. Two concurrent writers
// computing the same derived rate is a benign race: values are deterministic
// given the same inputs, so last write wins.
func (r *PgxRateCacheRepository) PutRate(ctx context.Context, entry domain.RateEntry) error {
	from := strings.ToUpper(entry.FromCurrencyCode)
	to := strings.ToUpper(entry.ToCurrencyCode)

	if from == to {
		return fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}
	if !entry.Rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rate_cache (from_currency_code, to_currency_code, day, rate, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_currency_code, to_currency_code, day)
		DO UPDATE SET rate = EXCLUDED.rate, fetched_at = EXCLUDED.fetched_at;`,
		from, to, entry.Day.Time(), entry.Rate, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rate cache entry: %w", err)
	}
	return nil
}
