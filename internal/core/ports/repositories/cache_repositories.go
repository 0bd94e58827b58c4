package repositories

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// RankCache keeps computed rank tables per exchange and generation. Invalidation
// bumps the generation, so a table computed from an older ledger state is written
// under a generation nobody reads anymore. A miss is (nil, false, nil).
type RankCache interface {
	Generation(ctx context.Context, exchangeID string) (int64, error)
	GetRankTable(ctx context.Context, exchangeID string, generation int64, target domain.TargetRef) (*domain.RankTable, bool, error)
	SetRankTable(ctx context.Context, generation int64, table domain.RankTable) error
	// InvalidateExchange starts a new generation for exchangeID.
	InvalidateExchange(ctx context.Context, exchangeID string) error
}
