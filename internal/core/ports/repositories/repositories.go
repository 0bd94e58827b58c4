package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ExchangeRepo ExchangeRepositoryFacade
	MaterialRepo MaterialRepositoryFacade
	LedgerRepo   BidLedgerRepositoryFacade
	BidderRepo   BidderRepositoryFacade
	SettingsRepo SettingsRepository
	RankCache    RankCache
}
