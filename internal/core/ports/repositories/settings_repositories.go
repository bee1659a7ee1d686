package repositories

import "context"

// SettingsRepositoryFacade defines persistence for the externally-owned
// application settings this core consumes, chiefly the default currency.
type SettingsRepositoryFacade interface {
	// GetDefaultCurrency returns the current default currency code.
	GetDefaultCurrency(ctx context.Context) (string, error)

	// SetDefaultCurrency updates the default currency code. The currency-switch
	// workflow only calls this directly on the no-conversion-needed fast path;
	// the regular path flips it inside the bulk rewrite transaction.
	SetDefaultCurrency(ctx context.Context, code string) error
}
