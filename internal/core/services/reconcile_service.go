package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	portsrepo "github.com/fintra-app/fintra_backend/internal/core/ports/repositories"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reconcileService runs the pending-conversion sweep: it fills in missing
// converted amounts on transactions whose currency differs from the default.
// The sweep is idempotent and best-effort: per-pair failures leave those rows
// pending for the next invocation, and the returned count communicates partial
// success implicitly.
type reconcileService struct {
	ledger   portsrepo.LedgerRepositoryFacade
	settings portsrepo.SettingsRepositoryFacade
	resolver portssvc.RateResolverSvcFacade
	logger   *slog.Logger
	workers  int
}

// NewReconcileService creates the sweep service. workers bounds the number of
// concurrent rate resolutions.
func NewReconcileService(
	ledger portsrepo.LedgerRepositoryFacade,
	settings portsrepo.SettingsRepositoryFacade,
	resolver portssvc.RateResolverSvcFacade,
	logger *slog.Logger,
	workers int,
) portssvc.ReconcileSvcFacade {
	if workers < 1 {
		workers = 1
	}
	return &reconcileService{
		ledger:   ledger,
		settings: settings,
		resolver: resolver,
		logger:   logger,
		workers:  workers,
	}
}

type resolvedPair struct {
	pair domain.ConversionPair
	rate decimal.Decimal
}

// ReconcilePending groups pending transactions into (day, currency) pairs,
// resolves each pair's rate through a bounded worker pool, then issues one
// bulk update per resolved pair. Resolution order is unspecified; the ledger
// writes are serialized.
func (s *reconcileService) ReconcilePending(ctx context.Context) (int64, error) {
	defaultCurrency, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return 0, err
	}

	pairs, err := s.ledger.FindPendingConversionPairs(ctx, defaultCurrency)
	if err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, nil
	}

	s.logger.Info("Starting pending-conversion sweep",
		slog.String("default_currency", defaultCurrency),
		slog.Int("pairs", len(pairs)),
	)

	var mu sync.Mutex
	resolved := make([]resolvedPair, 0, len(pairs))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, pair := range pairs {
		pair := pair
		g.Go(func() error {
			rate, err := s.resolver.Resolve(ctx, pair.CurrencyCode, defaultCurrency, pair.Day)
			if err != nil {
				// The pair stays pending and is retried on the next sweep.
				s.logger.Warn("Rate unresolved during sweep",
					slog.String("currency", pair.CurrencyCode),
					slog.String("day", pair.Day.String()),
					slog.String("error", err.Error()),
				)
				return nil
			}
			mu.Lock()
			resolved = append(resolved, resolvedPair{pair: pair, rate: rate})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	var total int64
	for _, res := range resolved {
		n, err := s.ledger.UpdatePendingConverted(ctx, res.pair, res.rate, defaultCurrency)
		if err != nil {
			s.logger.Error("Bulk update failed during sweep",
				slog.String("currency", res.pair.CurrencyCode),
				slog.String("day", res.pair.Day.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		total += n
	}

	s.logger.Info("Pending-conversion sweep finished",
		slog.Int64("updated", total),
		slog.Int("pairs_resolved", len(resolved)),
		slog.Int("pairs_total", len(pairs)),
	)
	return total, nil
}
