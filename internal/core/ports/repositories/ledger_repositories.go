package repositories

import (
	"context"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over the transaction ledger.
type LedgerReader interface {
	// FindTransactionByID retrieves a specific transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions, newest first.
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error)

	// FindPendingConversionPairs returns the distinct (day, currency) pairs among
	// transactions that still lack a converted amount in defaultCurrency, with
	// the count of transactions sharing each pair.
	FindPendingConversionPairs(ctx context.Context, defaultCurrency string) ([]domain.ConversionPair, error)

	// FindConversionPairs returns the distinct (day, currency) pairs among ALL
	// transactions whose currency differs from targetCurrency, regardless of
	// their current converted amount. Used when switching the default currency.
	FindConversionPairs(ctx context.Context, targetCurrency string) ([]domain.ConversionPair, error)
}

// LedgerWriter defines write operations over the transaction ledger.
type LedgerWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdatePendingConverted sets the converted amount for every transaction
	// matching the pair that still lacks one, converting with the given rate
	// and banker's rounding. The "still missing" predicate is re-checked inside
	// the statement to stay safe against concurrent edits. Returns the number
	// of rows updated.
	UpdatePendingConverted(ctx context.Context, pair domain.ConversionPair, rate decimal.Decimal, defaultCurrency string) (int64, error)

	// RewriteConvertedAndSetDefault performs the atomic currency switch in a
	// single database transaction: transactions in other currencies are
	// converted with their pair's rate, transactions already in targetCurrency
	// get the identity conversion, and only then is the default-currency
	// setting updated. Nothing commits if any step fails. Returns the number
	// of transactions rewritten.
	RewriteConvertedAndSetDefault(ctx context.Context, rates map[domain.PairKey]decimal.Decimal, targetCurrency string) (int64, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
