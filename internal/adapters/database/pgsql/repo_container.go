package pgsql

import (
	portsrepo "github.com/fintra-app/fintra_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql repositories onto one pool.
func NewRepositoryProvider(db *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateCacheRepo: NewPgxRateCacheRepository(db),
		LedgerRepo:    NewPgxLedgerRepository(db),
		SettingsRepo:  NewPgxSettingsRepository(db),
	}
}
