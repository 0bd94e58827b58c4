// Package valuation turns ledger entries into one comparable value per bidder
// and target, according to the category of the exchange.
package valuation

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Strategy values the targets of one exchange category.
type Strategy interface {
	// LeadershipTarget is the target whose leader receives displacement notices.
	LeadershipTarget(ex domain.Exchange) domain.TargetRef

	// Targets lists every rankable target, LeadershipTarget first.
	Targets(ex domain.Exchange, materials []domain.Material) []domain.TargetRef

	// CurrentValues returns the current value of every bidder on target, ordered by bidder.
	CurrentValues(ctx context.Context, reader portsrepo.LedgerReader, ex domain.Exchange, target domain.TargetRef) ([]domain.BidderValue, error)

	// OpeningValues returns the first value of every bidder on target, ordered by bidder.
	OpeningValues(ctx context.Context, reader portsrepo.LedgerReader, ex domain.Exchange, target domain.TargetRef) ([]domain.BidderValue, error)
}

// ForCategory returns the strategy of a category.
func ForCategory(c domain.Category) (Strategy, error) {
	switch c {
	case domain.CategoryFreight:
		return SingleValueStrategy{}, nil
	case domain.CategoryGoods:
		return BasketSumStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, c)
	}
}

// SingleValueStrategy values a target by the bidder's own ledger entries. It is the
// freight strategy and also prices individual goods materials.
type SingleValueStrategy struct{}

// LeadershipTarget is the exchange itself.
func (SingleValueStrategy) LeadershipTarget(ex domain.Exchange) domain.TargetRef {
	return domain.ExchangeTarget(ex.ExchangeID)
}

// Targets returns only the exchange target.
func (s SingleValueStrategy) Targets(ex domain.Exchange, _ []domain.Material) []domain.TargetRef {
	return []domain.TargetRef{s.LeadershipTarget(ex)}
}

func (SingleValueStrategy) CurrentValues(ctx context.Context, reader portsrepo.LedgerReader, _ domain.Exchange, target domain.TargetRef) ([]domain.BidderValue, error) {
	if target.Kind == domain.TargetBasket {
		return nil, fmt.Errorf("%w: basket target needs the basket strategy", apperrors.ErrUnknownTarget)
	}
	values, err := reader.LatestPerBidder(ctx, target)
	if err != nil {
		return nil, err
	}
	return sortByBidder(values), nil
}

func (SingleValueStrategy) OpeningValues(ctx context.Context, reader portsrepo.LedgerReader, _ domain.Exchange, target domain.TargetRef) ([]domain.BidderValue, error) {
	if target.Kind == domain.TargetBasket {
		return nil, fmt.Errorf("%w: basket target needs the basket strategy", apperrors.ErrUnknownTarget)
	}
	values, err := reader.OpeningPerBidder(ctx, target)
	if err != nil {
		return nil, err
	}
	return sortByBidder(values), nil
}

// BasketSumStrategy is the goods strategy. Materials are ranked one by one and each
// bidder's basket is the sum of their latest prices over every material. A bidder who
// has not priced every material is ranked on the partial sum.
type BasketSumStrategy struct {
	single SingleValueStrategy
}

// LeadershipTarget is the basket of the exchange.
func (BasketSumStrategy) LeadershipTarget(ex domain.Exchange) domain.TargetRef {
	return domain.BasketTarget(ex.ExchangeID)
}

// Targets returns the basket followed by every material in listing order.
func (s BasketSumStrategy) Targets(ex domain.Exchange, materials []domain.Material) []domain.TargetRef {
	targets := make([]domain.TargetRef, 0, len(materials)+1)
	targets = append(targets, s.LeadershipTarget(ex))
	for _, m := range materials {
		targets = append(targets, domain.MaterialTarget(m.MaterialID))
	}
	return targets
}

func (s BasketSumStrategy) CurrentValues(ctx context.Context, reader portsrepo.LedgerReader, ex domain.Exchange, target domain.TargetRef) ([]domain.BidderValue, error) {
	if target.Kind != domain.TargetBasket {
		return s.single.CurrentValues(ctx, reader, ex, target)
	}
	records, err := reader.LatestPerMaterial(ctx, ex.ExchangeID)
	if err != nil {
		return nil, err
	}
	return SumPerBidder(records), nil
}

func (s BasketSumStrategy) OpeningValues(ctx context.Context, reader portsrepo.LedgerReader, ex domain.Exchange, target domain.TargetRef) ([]domain.BidderValue, error) {
	if target.Kind != domain.TargetBasket {
		return s.single.OpeningValues(ctx, reader, ex, target)
	}
	records, err := reader.OpeningPerMaterial(ctx, ex.ExchangeID)
	if err != nil {
		return nil, err
	}
	return SumPerBidder(records), nil
}

// SumPerBidder adds up normalized values per bidder. Sequence is the newest one summed.
func SumPerBidder(records []domain.BidRecord) []domain.BidderValue {
	sums := make(map[string]*domain.BidderValue)
	for _, rec := range records {
		v, ok := sums[rec.BidderID]
		if !ok {
			v = &domain.BidderValue{BidderID: rec.BidderID, Value: decimal.Zero}
			sums[rec.BidderID] = v
		}
		v.Value = v.Value.Add(rec.NormalizedValue)
		if rec.Sequence > v.Sequence {
			v.Sequence = rec.Sequence
		}
	}
	out := make([]domain.BidderValue, 0, len(sums))
	for _, v := range sums {
		out = append(out, *v)
	}
	return sortByBidder(out)
}

func sortByBidder(values []domain.BidderValue) []domain.BidderValue {
	sort.Slice(values, func(i, j int) bool { return values[i].BidderID < values[j].BidderID })
	return values
}

// CurrentValue is the current value of one bidder on target.
func CurrentValue(ctx context.Context, s Strategy, reader portsrepo.LedgerReader, ex domain.Exchange, target domain.TargetRef, bidderID string) (decimal.Decimal, bool, error) {
	values, err := s.CurrentValues(ctx, reader, ex, target)
	if err != nil {
		return decimal.Zero, false, err
	}
	return find(values, bidderID)
}

// OpeningValue is the opening value of one bidder on target.
func OpeningValue(ctx context.Context, s Strategy, reader portsrepo.LedgerReader, ex domain.Exchange, target domain.TargetRef, bidderID string) (decimal.Decimal, bool, error) {
	values, err := s.OpeningValues(ctx, reader, ex, target)
	if err != nil {
		return decimal.Zero, false, err
	}
	return find(values, bidderID)
}

func find(values []domain.BidderValue, bidderID string) (decimal.Decimal, bool, error) {
	for _, v := range values {
		if v.BidderID == bidderID {
			return v.Value, true, nil
		}
	}
	return decimal.Zero, false, nil
}
