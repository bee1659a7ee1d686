package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultCurrencyKey = "default_currency"

// PgxSettingsRepository implements ports' SettingsRepositoryFacade over the
// app_settings key/value table.
type PgxSettingsRepository struct {
	BaseRepository
}

// NewPgxSettingsRepository creates a new PgxSettingsRepository.
func NewPgxSettingsRepository(db *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetDefaultCurrency returns the current default currency code.
func (r *PgxSettingsRepository) GetDefaultCurrency(ctx context.Context) (string, error) {
	var code string
	err := r.Pool.QueryRow(ctx,
		`SELECT value FROM app_settings WHERE key = $1;`, defaultCurrencyKey,
	).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: default currency not configured", apperrors.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read default currency: %w", err)
	}
	return code, nil
}

// SetDefaultCurrency updates the default currency code.
func (r *PgxSettingsRepository) SetDefaultCurrency(ctx context.Context, code string) error {
	code = strings.ToUpper(code)
	if len(code) != 3 {
		return fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO app_settings (key, value, last_updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, last_updated_at = now();`,
		defaultCurrencyKey, code,
	)
	if err != nil {
		return fmt.Errorf("failed to set default currency: %w", err)
	}
	return nil
}

// EnsureDefaultCurrency seeds the default currency if none is configured yet.
func (r *PgxSettingsRepository) EnsureDefaultCurrency(ctx context.Context, code string) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO app_settings (key, value, last_updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO NOTHING;`,
		defaultCurrencyKey, strings.ToUpper(code),
	)
	if err != nil {
		return fmt.Errorf("failed to seed default currency: %w", err)
	}
	return nil
}
