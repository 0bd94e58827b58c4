package memory

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// NopRankCache never holds anything; rankings are always recomputed.
type NopRankCache struct{}

func (NopRankCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (NopRankCache) GetRankTable(context.Context, string, int64, domain.TargetRef) (*domain.RankTable, bool, error) {
	return nil, false, nil
}

func (NopRankCache) SetRankTable(context.Context, int64, domain.RankTable) error { return nil }

func (NopRankCache) InvalidateExchange(context.Context, string) error { return nil }
