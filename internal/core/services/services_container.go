package services

import (
	"log/slog"

	"github.com/fintra-app/fintra_backend/internal/core/ports/providers"
	portsrepo "github.com/fintra-app/fintra_backend/internal/core/ports/repositories"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/fintra-app/fintra_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	provider providers.RateProvider,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The resolver is the shared primitive; both the sweep and the
	// currency-switch workflow depend on it.
	container.RateResolver = NewRateResolverService(repos.RateCacheRepo, provider, cfg.HubCurrency)

	container.Reconcile = NewReconcileService(
		repos.LedgerRepo,
		repos.SettingsRepo,
		container.RateResolver,
		logger,
		cfg.ResolveWorkers,
	)

	container.CurrencySwitch = NewCurrencySwitchService(
		repos.LedgerRepo,
		repos.SettingsRepo,
		container.RateResolver,
		logger,
		cfg.ResolveWorkers,
	)

	container.Transaction = NewTransactionService(repos.LedgerRepo, repos.SettingsRepo)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.RateResolverSvcFacade   = (*rateResolverService)(nil)
	_ portssvc.ReconcileSvcFacade      = (*reconcileService)(nil)
	_ portssvc.CurrencySwitchSvcFacade = (*currencySwitchService)(nil)
	_ portssvc.TransactionSvcFacade    = (*transactionService)(nil)
)
