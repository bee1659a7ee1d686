package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	portsrepo "github.com/fintra-app/fintra_backend/internal/core/ports/repositories"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/fintra-app/fintra_backend/internal/dto"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// transactionService provides the minimal ledger operations the HTTP surface
// needs to feed the reconciliation engine.
type transactionService struct {
	ledger   portsrepo.LedgerRepositoryFacade
	settings portsrepo.SettingsRepositoryFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(ledger portsrepo.LedgerRepositoryFacade, settings portsrepo.SettingsRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{ledger: ledger, settings: settings}
}

// CreateTransaction records a new transaction. A transaction already in the
// default currency gets the identity conversion at creation time; any other
// currency is left pending for the sweep.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	currency := strings.ToUpper(req.CurrencyCode)
	day, err := domain.ParseDay(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Description:   req.Description,
		Amount:        domain.NewMoney(req.Amount, currency),
		Occurred:      day,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if currency == defaultCurrency {
		identity := txn.Amount
		txn.Converted = &identity
	}

	if err := s.ledger.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return &txn, nil
}

// GetTransaction retrieves a single transaction by its id.
func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", apperrors.ErrValidation)
	}
	return s.ledger.FindTransactionByID(ctx, transactionID)
}

// ListTransactions retrieves a paginated list of transactions.
func (s *transactionService) ListTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.ListTransactions(ctx, limit, offset)
}
