package pgsql

import (
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL repositories. rankCache is passed through.
func NewRepositoryProvider(dbPool *pgxpool.Pool, rankCache portsrepo.RankCache) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRepo: newPgxExchangeRepository(dbPool),
		MaterialRepo: newPgxMaterialRepository(dbPool),
		LedgerRepo:   newPgxBidLedgerRepository(dbPool),
		BidderRepo:   newPgxBidderRepository(dbPool),
		SettingsRepo: newPgxSettingsRepository(dbPool),
		RankCache:    rankCache,
	}
}
