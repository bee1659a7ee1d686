package repositories

// RepositoryProvider aggregates all repository facades for dependency
// injection into the service container.
type RepositoryProvider struct {
	RateCacheRepo RateCacheRepositoryFacade
	LedgerRepo    LedgerRepositoryFacade
	SettingsRepo  SettingsRepositoryFacade
}
