package providers

import (
	"context"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateProvider defines the outbound port to the remote exchange-rate service.
// Implementations never retry internally; retry policy belongs to callers.
type RateProvider interface {
	// FetchPair fetches the rate for one currency pair on a calendar day.
	// Any transport error, non-success status, decode failure or absent
	// "official" rate kind surfaces as *apperrors.RateUnavailableError.
	FetchPair(ctx context.Context, from, to string, day domain.Day) (decimal.Decimal, error)

	// FetchDay fetches all available rates for a base currency on a calendar
	// day, keyed by target currency. Used for cache warmup.
	FetchDay(ctx context.Context, base string, day domain.Day) (map[string]decimal.Decimal, error)
}
