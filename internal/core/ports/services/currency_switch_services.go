package services

import (
	"context"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
)

// CurrencySwitchSvcFacade drives the user-initiated default-currency change
// workflow. Every transition is observable through SwitchStatus so callers can
// render progress, retry failed pairs, or cancel.
type CurrencySwitchSvcFacade interface {
	// BeginChange starts a switch to targetCurrency. If the target already is
	// the default it is a no-op. If no transaction needs a rate, the new
	// default is committed immediately. Otherwise the workflow enters
	// Converting and rate fetching starts in the background.
	BeginChange(ctx context.Context, targetCurrency string) (domain.SwitchStatus, error)

	// Status returns a snapshot of the current workflow state.
	Status(ctx context.Context) domain.SwitchStatus

	// RetryFailed re-fetches exactly the pairs currently in Failure, leaving
	// already-successful pairs untouched.
	RetryFailed(ctx context.Context) (domain.SwitchStatus, error)

	// ConfirmConversion performs the atomic bulk rewrite and commits the new
	// default currency. Refused with apperrors.ErrConflict unless every pair
	// is in Success.
	ConfirmConversion(ctx context.Context) (domain.SwitchStatus, error)

	// Cancel discards all in-memory workflow state and returns to Idle without
	// touching the ledger or the default currency.
	Cancel(ctx context.Context) domain.SwitchStatus
}
