package services

import (
	"context"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateResolverSvcFacade resolves an exchange rate for an arbitrary
// (from, to, calendar day) triple using the layered cache strategy:
// identity, direct cache hit, inverse cache hit, hub triangulation, then
// remote fetch, short-circuiting on the first success.
type RateResolverSvcFacade interface {
	// Resolve returns the rate meaning "1 unit of from = rate units of to" on
	// the given day, or *apperrors.RateUnavailableError when every strategy
	// is exhausted.
	Resolve(ctx context.Context, from, to string, day domain.Day) (decimal.Decimal, error)

	// WarmDay fetches and caches all remote rates for a base currency on a
	// day, returning how many entries were stored.
	WarmDay(ctx context.Context, base string, day domain.Day) (int, error)
}
