package services

import (
	"context"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/fintra-app/fintra_backend/internal/dto"
)

// TransactionSvcFacade exposes the minimal ledger operations the HTTP surface
// needs to feed the reconciliation engine.
type TransactionSvcFacade interface {
	// CreateTransaction records a new transaction. When the transaction is
	// already in the default currency its converted amount is set identically
	// at creation time, bypassing rate lookup.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// GetTransaction retrieves a single transaction by its id, returning
	// apperrors.ErrNotFound when no such transaction exists.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions.
	ListTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error)
}
