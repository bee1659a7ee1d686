package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	portsrepo "github.com/fintra-app/fintra_backend/internal/core/ports/repositories"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// currencySwitchService drives the default-currency change workflow as an
// explicit state machine. One session exists at a time; every transition is
// observable so callers can show per-pair progress, retry failures, or cancel.
//
// Workflow failures (an unresolvable pair, a failed rewrite) are not returned
// as errors; they land in the observable state. Errors are reserved for misuse
// (confirming before all pairs resolved, beginning a switch while one is
// running).
type currencySwitchService struct {
	ledger   portsrepo.LedgerRepositoryFacade
	settings portsrepo.SettingsRepositoryFacade
	resolver portssvc.RateResolverSvcFacade
	logger   *slog.Logger
	workers  int

	mu      sync.Mutex
	session *switchSession
}

// switchSession is the in-memory state of one workflow run. Cancel discards
// it wholesale; background fetch goroutines compare their captured pointer
// against the current one before writing, so a canceled session's late
// results are dropped instead of resurrecting state.
type switchSession struct {
	target       string
	phase        domain.SwitchPhase
	pairs        []domain.PairRate
	updatedCount int
	reason       string
}

// NewCurrencySwitchService creates the currency-switch workflow service.
func NewCurrencySwitchService(
	ledger portsrepo.LedgerRepositoryFacade,
	settings portsrepo.SettingsRepositoryFacade,
	resolver portssvc.RateResolverSvcFacade,
	logger *slog.Logger,
	workers int,
) portssvc.CurrencySwitchSvcFacade {
	if workers < 1 {
		workers = 1
	}
	return &currencySwitchService{
		ledger:   ledger,
		settings: settings,
		resolver: resolver,
		logger:   logger,
		workers:  workers,
	}
}

// BeginChange starts a switch to targetCurrency. Switching to the currency
// that is already default is a no-op that does not even query the ledger.
// When no transaction needs a rate the new default commits immediately.
func (s *currencySwitchService) BeginChange(ctx context.Context, targetCurrency string) (domain.SwitchStatus, error) {
	target := strings.ToUpper(targetCurrency)
	if len(target) != 3 {
		return s.Status(ctx), fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}

	current, err := s.settings.GetDefaultCurrency(ctx)
	if err != nil {
		return s.Status(ctx), err
	}
	if target == current {
		return domain.SwitchStatus{Phase: domain.SwitchIdle}, nil
	}

	s.mu.Lock()
	if s.session != nil && s.session.phase == domain.SwitchConverting {
		status := s.session.snapshot()
		s.mu.Unlock()
		return status, fmt.Errorf("%w: a currency switch is already in progress", apperrors.ErrConflict)
	}
	s.mu.Unlock()

	// Pairs are discovered against the prospective target, not the current
	// default: transactions already in the target currency need no rate.
	pairs, err := s.ledger.FindConversionPairs(ctx, target)
	if err != nil {
		return s.Status(ctx), err
	}

	if len(pairs) == 0 {
		// Fast path: nothing to convert, commit the new default directly.
		if err := s.settings.SetDefaultCurrency(ctx, target); err != nil {
			return s.Status(ctx), err
		}
		s.mu.Lock()
		s.session = &switchSession{target: target, phase: domain.SwitchSuccess}
		status := s.session.snapshot()
		s.mu.Unlock()
		s.logger.Info("Default currency switched without conversion", slog.String("target", target))
		return status, nil
	}

	sess := &switchSession{
		target: target,
		phase:  domain.SwitchConverting,
		pairs:  make([]domain.PairRate, len(pairs)),
	}
	for i, p := range pairs {
		sess.pairs[i] = domain.PairRate{Pair: p, State: domain.PairLoading}
	}

	s.mu.Lock()
	// Re-check: another BeginChange may have won the race while pairs were
	// being discovered.
	if s.session != nil && s.session.phase == domain.SwitchConverting {
		status := s.session.snapshot()
		s.mu.Unlock()
		return status, fmt.Errorf("%w: a currency switch is already in progress", apperrors.ErrConflict)
	}
	s.session = sess
	status := sess.snapshot()
	s.mu.Unlock()

	indices := make([]int, len(pairs))
	for i := range indices {
		indices[i] = i
	}
	// Fetching outlives the request that started it; results arrive through
	// Status polling.
	go s.fetchRates(context.WithoutCancel(ctx), sess, indices)

	return status, nil
}

// fetchRates resolves the given pairs through a bounded worker pool, moving
// each pair independently to Success or Failure as its resolution completes.
func (s *currencySwitchService) fetchRates(ctx context.Context, sess *switchSession, indices []int) {
	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for _, i := range indices {
		i := i
		s.mu.Lock()
		if s.session != sess {
			s.mu.Unlock()
			return
		}
		pair := sess.pairs[i].Pair
		target := sess.target
		s.mu.Unlock()

		g.Go(func() error {
			rate, err := s.resolver.Resolve(ctx, pair.CurrencyCode, target, pair.Day)

			s.mu.Lock()
			defer s.mu.Unlock()
			if s.session != sess || sess.phase != domain.SwitchConverting {
				return nil // session canceled or replaced, drop the result
			}
			if err != nil {
				sess.pairs[i].State = domain.PairFailure
				sess.pairs[i].Reason = err.Error()
			} else {
				sess.pairs[i].State = domain.PairSuccess
				sess.pairs[i].Rate = rate
				sess.pairs[i].Reason = ""
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Status returns a snapshot of the current workflow state.
func (s *currencySwitchService) Status(ctx context.Context) domain.SwitchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.SwitchStatus{Phase: domain.SwitchIdle}
	}
	return s.session.snapshot()
}

// RetryFailed re-fetches exactly the pairs currently in Failure.
func (s *currencySwitchService) RetryFailed(ctx context.Context) (domain.SwitchStatus, error) {
	s.mu.Lock()
	sess := s.session
	if sess == nil || sess.phase != domain.SwitchConverting {
		s.mu.Unlock()
		return s.Status(ctx), fmt.Errorf("%w: no conversion in progress", apperrors.ErrConflict)
	}

	var indices []int
	for i := range sess.pairs {
		if sess.pairs[i].State == domain.PairFailure {
			sess.pairs[i].State = domain.PairLoading
			sess.pairs[i].Reason = ""
			indices = append(indices, i)
		}
	}
	status := sess.snapshot()
	s.mu.Unlock()

	if len(indices) > 0 {
		go s.fetchRates(context.WithoutCancel(ctx), sess, indices)
	}
	return status, nil
}

// ConfirmConversion performs the atomic bulk rewrite and commits the new
// default currency. It is refused while any pair is unresolved: no
// transaction may be left with a stale converted amount under a new default.
func (s *currencySwitchService) ConfirmConversion(ctx context.Context) (domain.SwitchStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session
	if sess == nil || sess.phase != domain.SwitchConverting {
		return s.statusLocked(), fmt.Errorf("%w: no conversion in progress", apperrors.ErrConflict)
	}
	if !sess.snapshot().AllPairsResolved() {
		return sess.snapshot(), fmt.Errorf("%w: not all rates resolved", apperrors.ErrConflict)
	}

	rates := make(map[domain.PairKey]decimal.Decimal, len(sess.pairs))
	for _, p := range sess.pairs {
		rates[p.Pair.Key()] = p.Rate
	}

	count, err := s.ledger.RewriteConvertedAndSetDefault(ctx, rates, sess.target)
	if err != nil {
		// The rewrite rolled back; the default currency is unchanged. Surface
		// through the state machine, not as a caller error.
		sess.phase = domain.SwitchFailure
		sess.reason = err.Error()
		s.logger.Error("Currency switch rewrite failed",
			slog.String("target", sess.target),
			slog.String("error", err.Error()),
		)
		return sess.snapshot(), nil
	}

	sess.phase = domain.SwitchSuccess
	sess.updatedCount = int(count)
	s.logger.Info("Default currency switched",
		slog.String("target", sess.target),
		slog.Int64("transactions_updated", count),
	)
	return sess.snapshot(), nil
}

// Cancel discards all in-memory workflow state. It never touches the ledger
// or the default currency, and never interrupts a rewrite already admitted
// into ConfirmConversion.
func (s *currencySwitchService) Cancel(ctx context.Context) domain.SwitchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return domain.SwitchStatus{Phase: domain.SwitchIdle}
}

func (s *currencySwitchService) statusLocked() domain.SwitchStatus {
	if s.session == nil {
		return domain.SwitchStatus{Phase: domain.SwitchIdle}
	}
	return s.session.snapshot()
}

// snapshot copies the session state so callers can read it without holding
// the service lock.
func (sess *switchSession) snapshot() domain.SwitchStatus {
	pairs := make([]domain.PairRate, len(sess.pairs))
	copy(pairs, sess.pairs)
	return domain.SwitchStatus{
		Phase:          sess.phase,
		TargetCurrency: sess.target,
		Pairs:          pairs,
		UpdatedCount:   sess.updatedCount,
		Reason:         sess.reason,
	}
}
