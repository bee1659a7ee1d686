package services

import "context"

// ReconcileSvcFacade exposes the pending-conversion sweep. The sweep is
// idempotent and best-effort: it is safe to invoke repeatedly from any
// scheduler or lifecycle hook, and per-pair failures are never surfaced as
// errors; they simply leave those rows pending for the next invocation.
type ReconcileSvcFacade interface {
	// ReconcilePending fills in missing converted amounts on transactions whose
	// currency differs from the default, grouping transactions by (day,
	// currency) so N transactions sharing a pair cost one rate lookup. Returns
	// the number of transactions updated.
	ReconcilePending(ctx context.Context) (int64, error)
}
