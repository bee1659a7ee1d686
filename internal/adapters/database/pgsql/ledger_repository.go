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
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository implements ports' LedgerRepositoryFacade using pgxpool.
// All multi-row rewrites run inside a single database transaction so the
// ledger can never be observed half-converted.
type PgxLedgerRepository struct {
	BaseRepository
}

// NewPgxLedgerRepository creates a new PgxLedgerRepository.
func NewPgxLedgerRepository(db *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SaveTransaction persists a new transaction.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	var convertedAmount *int64
	var convertedCurrency *string
	if txn.Converted != nil {
		convertedAmount = &txn.Converted.Amount
		convertedCurrency = &txn.Converted.CurrencyCode
	}

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO transactions (
			transaction_id, description, amount, currency_code,
			converted_amount, converted_currency_code, occurred_on,
			created_at, last_updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txn.TransactionID, txn.Description, txn.Amount.Amount, strings.ToUpper(txn.Amount.CurrencyCode),
		convertedAmount, convertedCurrency, txn.Occurred.Time(),
		txn.CreatedAt, txn.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// FindTransactionByID retrieves a specific transaction.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := selectTransactionColumns + ` WHERE transaction_id = $1;`
	row := r.Pool.QueryRow(ctx, query, transactionID)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions retrieves a paginated list of transactions, newest first.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	query := selectTransactionColumns + ` ORDER BY occurred_on DESC, transaction_id LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transactions: %w", err)
	}
	return txns, nil
}

// FindPendingConversionPairs returns the distinct (day, currency) pairs among
// transactions still lacking a converted amount in defaultCurrency.
func (r *PgxLedgerRepository) FindPendingConversionPairs(ctx context.Context, defaultCurrency string) ([]domain.ConversionPair, error) {
	query := `
		SELECT occurred_on, currency_code, COUNT(*)
		FROM transactions
		WHERE converted_amount IS NULL AND currency_code <> $1
		GROUP BY occurred_on, currency_code
		ORDER BY occurred_on, currency_code;
	`
	return r.queryPairs(ctx, query, strings.ToUpper(defaultCurrency))
}

// FindConversionPairs returns the distinct (day, currency) pairs among ALL
// transactions whose currency differs from targetCurrency.
func (r *PgxLedgerRepository) FindConversionPairs(ctx context.Context, targetCurrency string) ([]domain.ConversionPair, error) {
	query := `
		SELECT occurred_on, currency_code, COUNT(*)
		FROM transactions
		WHERE currency_code <> $1
		GROUP BY occurred_on, currency_code
		ORDER BY occurred_on, currency_code;
	`
	return r.queryPairs(ctx, query, strings.ToUpper(targetCurrency))
}

func (r *PgxLedgerRepository) queryPairs(ctx context.Context, query, currency string) ([]domain.ConversionPair, error) {
	rows, err := r.Pool.Query(ctx, query, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion pairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.ConversionPair
	for rows.Next() {
		var day time.Time
		var pair domain.ConversionPair
		if err := rows.Scan(&day, &pair.CurrencyCode, &pair.Count); err != nil {
			return nil, fmt.Errorf("failed to scan conversion pair: %w", err)
		}
		pair.Day = domain.DayOf(day.UTC())
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading conversion pairs: %w", err)
	}
	return pairs, nil
}

// UpdatePendingConverted converts every transaction matching the pair that
// still lacks a converted amount. Rounding happens here in Go (banker's
// rounding via Money.Convert) rather than in SQL, and the write re-checks
// converted_amount IS NULL to stay safe against concurrent edits.
func (r *PgxLedgerRepository) UpdatePendingConverted(ctx context.Context, pair domain.ConversionPair, rate decimal.Decimal, defaultCurrency string) (int64, error) {
	defaultCurrency = strings.ToUpper(defaultCurrency)

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `
		SELECT transaction_id, amount
		FROM transactions
		WHERE occurred_on = $1 AND currency_code = $2 AND converted_amount IS NULL;`,
		pair.Day.Time(), strings.ToUpper(pair.CurrencyCode),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to query pending transactions: %w", err)
	}

	ids, converted, err := convertRows(rows, pair.CurrencyCode, rate, defaultCurrency)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET converted_amount = v.converted,
			converted_currency_code = $1,
			last_updated_at = now()
		FROM (SELECT unnest($2::text[]) AS id, unnest($3::bigint[]) AS converted) v
		WHERE transactions.transaction_id = v.id AND transactions.converted_amount IS NULL;`,
		defaultCurrency, ids, converted,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: bulk update for pair %s/%s: %v", apperrors.ErrLedgerWrite, pair.CurrencyCode, pair.Day, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrLedgerWrite, err)
	}
	return tag.RowsAffected(), nil
}

// RewriteConvertedAndSetDefault performs the atomic currency switch: a rate
// pass over transactions in other currencies, an identity pass over
// transactions already in targetCurrency, and the default-currency settings
// write, all in one transaction. Nothing commits if any step fails.
func (r *PgxLedgerRepository) RewriteConvertedAndSetDefault(ctx context.Context, rates map[domain.PairKey]decimal.Decimal, targetCurrency string) (int64, error) {
	targetCurrency = strings.ToUpper(targetCurrency)

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `
		SELECT transaction_id, amount, currency_code, occurred_on
		FROM transactions
		WHERE currency_code <> $1;`,
		targetCurrency,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to query transactions for rewrite: %w", err)
	}

	var ids []string
	var converted []int64
	for rows.Next() {
		var id, currency string
		var amount int64
		var occurred time.Time
		if err := rows.Scan(&id, &amount, &currency, &occurred); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan transaction for rewrite: %w", err)
		}
		day := domain.DayOf(occurred.UTC())
		rate, ok := rates[domain.PairKey{Day: day, CurrencyCode: currency}]
		if !ok {
			rows.Close()
			return 0, fmt.Errorf("%w: no rate for %s on %s", apperrors.ErrValidation, currency, day)
		}
		money := domain.NewMoney(amount, currency).Convert(rate, targetCurrency)
		ids = append(ids, id)
		converted = append(converted, money.Amount)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed reading transactions for rewrite: %w", err)
	}
	rows.Close()

	var total int64
	if len(ids) > 0 {
		tag, err := tx.Exec(ctx, `
			UPDATE transactions
			SET converted_amount = v.converted,
				converted_currency_code = $1,
				last_updated_at = now()
			FROM (SELECT unnest($2::text[]) AS id, unnest($3::bigint[]) AS converted) v
			WHERE transactions.transaction_id = v.id;`,
			targetCurrency, ids, converted,
		)
		if err != nil {
			return 0, fmt.Errorf("%w: rate pass: %v", apperrors.ErrLedgerWrite, err)
		}
		total += tag.RowsAffected()
	}

	// Identity pass: converted equals original exactly, never derived through
	// a rate.
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET converted_amount = amount,
			converted_currency_code = $1,
			last_updated_at = now()
		WHERE currency_code = $1;`,
		targetCurrency,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: identity pass: %v", apperrors.ErrLedgerWrite, err)
	}
	total += tag.RowsAffected()

	// The default currency flips inside the same transaction, so a crash can
	// never leave a new default alongside stale converted amounts.
	if _, err := tx.Exec(ctx, `
		INSERT INTO app_settings (key, value, last_updated_at)
		VALUES ('default_currency', $1, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, last_updated_at = now();`,
		targetCurrency,
	); err != nil {
		return 0, fmt.Errorf("%w: settings write: %v", apperrors.ErrLedgerWrite, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrLedgerWrite, err)
	}
	return total, nil
}

const selectTransactionColumns = `
	SELECT transaction_id, description, amount, currency_code,
		converted_amount, converted_currency_code, occurred_on,
		created_at, last_updated_at
	FROM transactions`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var convertedAmount *int64
	var convertedCurrency *string
	var occurred time.Time

	err := row.Scan(
		&txn.TransactionID, &txn.Description, &txn.Amount.Amount, &txn.Amount.CurrencyCode,
		&convertedAmount, &convertedCurrency, &occurred,
		&txn.CreatedAt, &txn.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.Occurred = domain.DayOf(occurred.UTC())
	if convertedAmount != nil && convertedCurrency != nil {
		txn.Converted = &domain.Money{Amount: *convertedAmount, CurrencyCode: *convertedCurrency}
	}
	return &txn, nil
}

func convertRows(rows pgx.Rows, fromCurrency string, rate decimal.Decimal, toCurrency string) ([]string, []int64, error) {
	defer rows.Close()

	var ids []string
	var converted []int64
	for rows.Next() {
		var id string
		var amount int64
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, nil, fmt.Errorf("failed to scan pending transaction: %w", err)
		}
		money := domain.NewMoney(amount, fromCurrency).Convert(rate, toCurrency)
		ids = append(ids, id)
		converted = append(converted, money.Amount)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading pending transactions: %w", err)
	}
	return ids, converted, nil
}
