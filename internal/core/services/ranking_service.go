package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/core/valuation"
)

type rankingService struct {
	BaseService
	exchangeRepo portsrepo.ExchangeReader
	materialRepo portsrepo.MaterialReader
	ledger       portsrepo.LedgerReader
	rankCache    portsrepo.RankCache
	exchanges    portssvc.ExchangeReaderSvc
}

// NewRankingService creates the read side of the engine. rankCache may be nil.
func NewRankingService(repos portsrepo.RepositoryProvider, exchanges portssvc.ExchangeReaderSvc) portssvc.RankingSvcFacade {
	return &rankingService{
		exchangeRepo: repos.ExchangeRepo,
		materialRepo: repos.MaterialRepo,
		ledger:       repos.LedgerRepo,
		rankCache:    repos.RankCache,
		exchanges:    exchanges,
	}
}

var _ portssvc.RankingSvcFacade = (*rankingService)(nil)

func (s *rankingService) RankTable(ctx context.Context, exchangeID string, target domain.TargetRef) (*domain.RankTable, error) {
	ex, err := findExchange(ctx, s.exchangeRepo, exchangeID)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(ctx, s.materialRepo, *ex, target); err != nil {
		return nil, err
	}
	strategy, err := valuation.ForCategory(ex.Category)
	if err != nil {
		return nil, err
	}
	table, err := s.resolve(ctx, strategy, *ex, target)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *rankingService) ExchangeRankings(ctx context.Context, exchangeID string) (*domain.ExchangeRankings, error) {
	ex, err := findExchange(ctx, s.exchangeRepo, exchangeID)
	if err != nil {
		return nil, err
	}
	tables, err := s.allTables(ctx, *ex)
	if err != nil {
		return nil, err
	}
	return &domain.ExchangeRankings{
		Exchange:   *ex,
		Leadership: tables[0],
		Materials:  tables[1:],
	}, nil
}

func (s *rankingService) MyOffers(ctx context.Context, bidderID string) ([]domain.BidderExchangeView, error) {
	exchanges, err := s.exchanges.ListOpenForBidder(ctx, bidderID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.BidderExchangeView, 0, len(exchanges))
	for _, ex := range exchanges {
		tables, err := s.allTables(ctx, ex)
		if err != nil {
			return nil, err
		}
		view := domain.BidderExchangeView{Exchange: ex, Standings: make([]domain.OfferStanding, 0, len(tables))}
		for _, t := range tables {
			entry, ok := t.Entry(bidderID)
			view.Standings = append(view.Standings, domain.OfferStanding{Target: t.Target, Entry: entry, Submitted: ok})
		}
		views = append(views, view)
	}
	return views, nil
}

// allTables returns the leadership table followed by one table per material.
func (s *rankingService) allTables(ctx context.Context, ex domain.Exchange) ([]domain.RankTable, error) {
	strategy, err := valuation.ForCategory(ex.Category)
	if err != nil {
		return nil, err
	}
	var materials []domain.Material
	if ex.Category == domain.CategoryGoods {
		materials, err = s.materialRepo.ListMaterialsByExchange(ctx, ex.ExchangeID)
		if err != nil {
			return nil, err
		}
	}
	targets := strategy.Targets(ex, materials)
	tables := make([]domain.RankTable, 0, len(targets))
	for _, target := range targets {
		table, err := s.resolve(ctx, strategy, ex, target)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// resolve serves a table from the cache or computes and stores it. Cache failures
// only cost a recomputation.
func (s *rankingService) resolve(ctx context.Context, strategy valuation.Strategy, ex domain.Exchange, target domain.TargetRef) (domain.RankTable, error) {
	var generation int64
	cacheUsable := s.rankCache != nil
	if cacheUsable {
		gen, err := s.rankCache.Generation(ctx, ex.ExchangeID)
		if err != nil {
			s.LogError(ctx, err, "Rank cache unavailable", slog.String("exchange_id", ex.ExchangeID))
			cacheUsable = false
		} else {
			generation = gen
			cached, ok, err := s.rankCache.GetRankTable(ctx, ex.ExchangeID, generation, target)
			if err != nil {
				s.LogError(ctx, err, "Failed to read rank cache", slog.String("exchange_id", ex.ExchangeID))
			} else if ok {
				return *cached, nil
			}
		}
	}

	table, err := valuation.Resolve(ctx, strategy, s.ledger, ex, target)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve rank table", slog.String("exchange_id", ex.ExchangeID), slog.String("target", target.Key()))
		return domain.RankTable{}, err
	}

	if cacheUsable {
		if err := s.rankCache.SetRankTable(ctx, generation, table); err != nil {
			s.LogError(ctx, err, "Failed to write rank cache", slog.String("exchange_id", ex.ExchangeID))
		}
	}
	return table, nil
}
