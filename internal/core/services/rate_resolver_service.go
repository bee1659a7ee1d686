package services

import (
	"context"
	"strings"
	"time"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/fintra-app/fintra_backend/internal/core/ports/providers"
	portsrepo "github.com/fintra-app/fintra_backend/internal/core/ports/repositories"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// rateResolverService resolves exchange rates through a layered strategy that
// minimizes remote calls: identity, direct cache hit, inverse cache hit, hub
// triangulation, remote fetch. Derived rates (inverse, triangulated) are
// written back to the cache the moment they are first computed, so the cache
// converges into a transitively complete table over time without redundant
// fetches. This service is the only writer of cache entries.
type rateResolverService struct {
	cache       portsrepo.RateCacheRepositoryFacade
	provider    providers.RateProvider
	hubCurrency string
}

// NewRateResolverService creates the rate resolver. hubCurrency is the fixed
// intermediate used to triangulate pairs that lack a direct or inverse cached
// rate (typically USD).
func NewRateResolverService(cache portsrepo.RateCacheRepositoryFacade, provider providers.RateProvider, hubCurrency string) portssvc.RateResolverSvcFacade {
	return &rateResolverService{
		cache:       cache,
		provider:    provider,
		hubCurrency: strings.ToUpper(hubCurrency),
	}
}

// Resolve returns the rate for (from, to, day), or a RateUnavailableError once
// every strategy is exhausted. Each step short-circuits on success.
func (s *rateResolverService) Resolve(ctx context.Context, from, to string, day domain.Day) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	// Identity: no cache, no network.
	if from == to {
		return one, nil
	}

	// Direct cache hit.
	if entry, err := s.cache.GetRate(ctx, from, to, day); err == nil {
		return entry.Rate, nil
	}

	// Inverse cache hit: derive 1/r and persist it under the direct key so
	// future lookups skip the recomputation.
	if entry, err := s.cache.GetRate(ctx, to, from, day); err == nil && entry.Rate.IsPositive() {
		rate := one.Div(entry.Rate)
		s.store(ctx, from, to, day, rate)
		return rate, nil
	}

	// Hub triangulation: from -> hub -> to, both legs cached.
	if from != s.hubCurrency && to != s.hubCurrency {
		legToHub, errFrom := s.cache.GetRate(ctx, from, s.hubCurrency, day)
		legFromHub, errTo := s.cache.GetRate(ctx, s.hubCurrency, to, day)
		if errFrom == nil && errTo == nil {
			rate := legToHub.Rate.Mul(legFromHub.Rate)
			s.store(ctx, from, to, day, rate)
			return rate, nil
		}
	}

	// Remote fetch, last resort. The provider maps every failure mode to
	// RateUnavailableError and never retries.
	rate, err := s.provider.FetchPair(ctx, from, to, day)
	if err != nil {
		return decimal.Zero, err
	}
	s.store(ctx, from, to, day, rate)
	return rate, nil
}

// WarmDay fetches all remote rates for a base currency on a day and caches
// them, returning the number of entries stored.
func (s *rateResolverService) WarmDay(ctx context.Context, base string, day domain.Day) (int, error) {
	base = strings.ToUpper(base)

	rates, err := s.provider.FetchDay(ctx, base, day)
	if err != nil {
		return 0, err
	}

	stored := 0
	for target, rate := range rates {
		if err := s.cache.PutRate(ctx, domain.RateEntry{
			FromCurrencyCode: base,
			ToCurrencyCode:   target,
			Day:              day,
			Rate:             rate,
			FetchedAt:        time.Now().UTC(),
		}); err == nil {
			stored++
		}
	}
	return stored, nil
}

// store persists a freshly computed rate. A failed write only costs a future
// recomputation, so it never fails the resolution that produced the rate.
func (s *rateResolverService) store(ctx context.Context, from, to string, day domain.Day, rate decimal.Decimal) {
	_ = s.cache.PutRate(ctx, domain.RateEntry{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Day:              day,
		Rate:             rate,
		FetchedAt:        time.Now().UTC(),
	})
}
