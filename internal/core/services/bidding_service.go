package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/core/valuation"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/SscSPs/reverse_auction_app/internal/utils/currency"
	"github.com/shopspring/decimal"
)

type biddingService struct {
	BaseService
	exchangeRepo portsrepo.ExchangeReader
	materialRepo portsrepo.MaterialReader
	ledger       portsrepo.BidLedgerRepositoryFacade
	notifier     *OutbidNotifier
	rankCache    portsrepo.RankCache
}

// BiddingServiceOption is a functional option for configuring the bidding service
type BiddingServiceOption func(*biddingService)

// WithBiddingClock overrides the clock used for the lifecycle check.
func WithBiddingClock(now func() time.Time) BiddingServiceOption {
	return func(s *biddingService) {
		s.Now = now
	}
}

// WithBiddingRankCache sets the cache invalidated after every accepted submission.
func WithBiddingRankCache(c portsrepo.RankCache) BiddingServiceOption {
	return func(s *biddingService) {
		s.rankCache = c
	}
}

// WithOutbidNotifier sets who is told about lost leads.
func WithOutbidNotifier(n *OutbidNotifier) BiddingServiceOption {
	return func(s *biddingService) {
		s.notifier = n
	}
}

// NewBiddingService creates the service that accepts submissions.
func NewBiddingService(exchangeRepo portsrepo.ExchangeReader, materialRepo portsrepo.MaterialReader, ledger portsrepo.BidLedgerRepositoryFacade, options ...BiddingServiceOption) portssvc.BiddingSvcFacade {
	svc := &biddingService{
		exchangeRepo: exchangeRepo,
		materialRepo: materialRepo,
		ledger:       ledger,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BiddingSvcFacade = (*biddingService)(nil)

// pricedTarget is one value ready to be appended.
type pricedTarget struct {
	target     domain.TargetRef
	components domain.CurrencyComponents
	value      decimal.Decimal
	note       string
}

// pricer turns the request into appendable values against the locked exchange state.
type pricer func(ctx context.Context, ex domain.Exchange) ([]pricedTarget, error)

func (s *biddingService) SubmitFreightBid(ctx context.Context, exchangeID, bidderID string, req dto.SubmitFreightBidRequest) (*domain.SubmissionResult, error) {
	return s.submit(ctx, exchangeID, bidderID, domain.CategoryFreight, func(_ context.Context, ex domain.Exchange) ([]pricedTarget, error) {
		components := currency.ParseComponents(req.Home, req.EUR, req.USD)
		value, err := currency.Normalize(components, ex.Rates)
		if err != nil {
			return nil, err
		}
		return []pricedTarget{{
			target:     domain.ExchangeTarget(ex.ExchangeID),
			components: components,
			value:      value,
		}}, nil
	})
}

func (s *biddingService) SubmitGoodsBid(ctx context.Context, exchangeID, bidderID string, req dto.SubmitGoodsBidRequest) (*domain.SubmissionResult, error) {
	return s.submit(ctx, exchangeID, bidderID, domain.CategoryGoods, func(ctx context.Context, ex domain.Exchange) ([]pricedTarget, error) {
		materials, err := s.materialRepo.ListMaterialsByExchange(ctx, ex.ExchangeID)
		if err != nil {
			return nil, err
		}
		known := make(map[string]struct{}, len(materials))
		for _, m := range materials {
			known[m.MaterialID] = struct{}{}
		}

		ids := make([]string, 0, len(req.Prices))
		for id := range req.Prices {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("%w: material %s is not part of exchange %s", apperrors.ErrUnknownTarget, id, ex.ExchangeID)
			}
			ids = append(ids, id)
		}
		sort.Strings(ids)

		priced := make([]pricedTarget, 0, len(ids))
		for _, id := range ids {
			raw := strings.TrimSpace(req.Prices[id])
			if raw == "" {
				continue
			}
			amount := currency.ParseAmount(raw)
			priced = append(priced, pricedTarget{
				target:     domain.MaterialTarget(id),
				components: domain.CurrencyComponents{Home: amount, EUR: decimal.Zero, USD: decimal.Zero},
				value:      currency.HomePrice(amount),
				note:       strings.TrimSpace(req.SubstituteNotes[id]),
			})
		}
		if len(priced) == 0 {
			return nil, fmt.Errorf("%w: no material was priced", apperrors.ErrValidation)
		}
		return priced, nil
	})
}

// submit runs lifecycle check, append and before/after leader resolution under the
// exchange lock, then dispatches displacement events once the appends are committed.
func (s *biddingService) submit(ctx context.Context, exchangeID, bidderID string, category domain.Category, price pricer) (*domain.SubmissionResult, error) {
	if strings.TrimSpace(bidderID) == "" {
		return nil, fmt.Errorf("%w: bidder identity is required", apperrors.ErrValidation)
	}

	var (
		result  domain.SubmissionResult
		locked  domain.Exchange
		pending []domain.DisplacementEvent
	)
	err := s.ledger.WithExchangeLock(ctx, exchangeID, func(ctx context.Context, ex domain.Exchange, uow portsrepo.LedgerUnitOfWork) error {
		locked = ex
		now := s.CurrentTime()
		if ex.Category != category {
			return fmt.Errorf("%w: exchange %s is a %s exchange", apperrors.ErrValidation, ex.ExchangeID, ex.Category)
		}
		if state := ex.State(now); state != domain.StateOpen {
			return fmt.Errorf("%w: exchange %s is %s", apperrors.ErrExchangeClosed, ex.ExchangeID, strings.ToLower(string(state)))
		}

		priced, err := price(ctx, ex)
		if err != nil {
			return err
		}

		strategy, err := valuation.ForCategory(ex.Category)
		if err != nil {
			return err
		}
		before, _, err := valuation.ResolveLeader(ctx, strategy, uow, ex)
		if err != nil {
			return err
		}

		for _, p := range priced {
			rec, err := uow.AppendBid(ctx, domain.BidRecord{
				ExchangeID:      ex.ExchangeID,
				BidderID:        bidderID,
				Target:          p.target,
				Components:      p.components,
				NormalizedValue: p.value,
				SubstituteNote:  p.note,
				CreatedAt:       now,
			})
			if err != nil {
				return err
			}
			result.Records = append(result.Records, rec)
		}

		_, after, err := valuation.ResolveLeader(ctx, strategy, uow, ex)
		if err != nil {
			return err
		}
		if event, ok := DecideDisplacement(ex, bidderID, before, after, now); ok {
			pending = append(pending, event)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrExchangeClosed) || errors.Is(err, apperrors.ErrUnknownTarget) || errors.Is(err, apperrors.ErrInvalidRate) || errors.Is(err, apperrors.ErrValidation) {
			s.LogInfo(ctx, "Submission rejected", slog.String("exchange_id", exchangeID), slog.String("bidder_id", bidderID), slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to record submission", slog.String("exchange_id", exchangeID), slog.String("bidder_id", bidderID))
		}
		return nil, err
	}

	s.invalidate(ctx, exchangeID)
	s.LogInfo(ctx, "Submission recorded",
		slog.String("exchange_id", exchangeID),
		slog.String("bidder_id", bidderID),
		slog.Int("entries", len(result.Records)))

	for _, event := range pending {
		if s.notifier.Notify(ctx, locked, event) {
			result.Displacements = append(result.Displacements, event)
		}
	}
	return &result, nil
}

func (s *biddingService) BidHistory(ctx context.Context, exchangeID string, target domain.TargetRef, bidderID string) ([]domain.BidRecord, error) {
	ex, err := findExchange(ctx, s.exchangeRepo, exchangeID)
	if err != nil {
		return nil, err
	}
	if target.Kind == domain.TargetBasket {
		return nil, fmt.Errorf("%w: baskets are derived and have no history of their own", apperrors.ErrUnknownTarget)
	}
	if err := checkTarget(ctx, s.materialRepo, *ex, target); err != nil {
		return nil, err
	}
	history, err := s.ledger.BidHistory(ctx, target, bidderID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read bid history", slog.String("exchange_id", exchangeID), slog.String("target", target.Key()))
		return nil, err
	}
	return history, nil
}

func (s *biddingService) invalidate(ctx context.Context, exchangeID string) {
	if s.rankCache == nil {
		return
	}
	if err := s.rankCache.InvalidateExchange(ctx, exchangeID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate rank cache", slog.String("exchange_id", exchangeID))
	}
}
