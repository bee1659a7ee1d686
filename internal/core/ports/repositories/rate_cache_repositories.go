package repositories

import (
	"context"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
)

// RateCacheReader defines read operations for cached exchange rates.
type RateCacheReader interface {
	// GetRate retrieves the cached rate for (from, to, day).
	// Returns apperrors.ErrNotFound when no entry exists.
	GetRate(ctx context.Context, from, to string, day domain.Day) (*domain.RateEntry, error)
}

// RateCacheWriter defines write operations for cached exchange rates.
// Only the rate resolver writes cache entries.
type RateCacheWriter interface {
	// PutRate upserts the entry by its (from, to, day) key.
	PutRate(ctx context.Context, entry domain.RateEntry) error
}

// RateCacheRepositoryFacade combines all rate-cache repository interfaces.
type RateCacheRepositoryFacade interface {
	RateCacheReader
	RateCacheWriter
}
