package valuation

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/SscSPs/reverse_auction_app/internal/utils/ranking"
)

// Resolve builds the rank table of target from the ledger as reader sees it.
// It only reads, so two calls without an intervening append return equal tables.
func Resolve(ctx context.Context, s Strategy, reader portsrepo.LedgerReader, ex domain.Exchange, target domain.TargetRef) (domain.RankTable, error) {
	current, err := s.CurrentValues(ctx, reader, ex, target)
	if err != nil {
		return domain.RankTable{}, err
	}
	opening, err := s.OpeningValues(ctx, reader, ex, target)
	if err != nil {
		return domain.RankTable{}, err
	}
	openingByBidder := make(map[string]domain.BidderValue, len(opening))
	for _, v := range opening {
		openingByBidder[v.BidderID] = v
	}

	candidates := make([]ranking.Candidate, 0, len(current))
	for _, v := range current {
		candidates = append(candidates, ranking.Candidate{
			BidderID:       v.BidderID,
			Current:        v.Value,
			Opening:        openingByBidder[v.BidderID].Value,
			SubstituteNote: v.SubstituteNote,
		})
	}

	return domain.RankTable{
		ExchangeID: ex.ExchangeID,
		Target:     target,
		Entries:    ranking.RankAscending(candidates),
	}, nil
}

// ResolveLeader returns who leads the leadership target of ex.
func ResolveLeader(ctx context.Context, s Strategy, reader portsrepo.LedgerReader, ex domain.Exchange) (domain.LeaderState, domain.RankTable, error) {
	table, err := Resolve(ctx, s, reader, ex, s.LeadershipTarget(ex))
	if err != nil {
		return domain.LeaderState{}, domain.RankTable{}, err
	}
	leader, ok := table.Leader()
	return domain.LeaderState{BidderID: leader, HasLeader: ok}, table, nil
}
