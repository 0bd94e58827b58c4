package ranking

import (
	"sort"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Candidate is one bidder's input to a ranking.
type Candidate struct {
	BidderID       string
	Current        decimal.Decimal
	Opening        decimal.Decimal
	SubstituteNote string
}

var hundred = decimal.NewFromInt(100)

// PercentChange is the drop from opening to current as a percentage of opening,
// rounded to one decimal. A non-positive opening value yields zero.
func PercentChange(opening, current decimal.Decimal) decimal.Decimal {
	if !opening.IsPositive() {
		return decimal.Zero
	}
	return opening.Sub(current).Div(opening).Mul(hundred).Round(1)
}

// RankAscending orders candidates by current value, lowest first, and labels the
// minimum: BEST when one bidder holds it, TIE on every bidder sharing it.
// Equal values are ordered by bidder id so the output never depends on input order.
func RankAscending(candidates []Candidate) []domain.RankEntry {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Current.Cmp(sorted[j].Current); c != 0 {
			return c < 0
		}
		return sorted[i].BidderID < sorted[j].BidderID
	})

	entries := make([]domain.RankEntry, len(sorted))
	if len(sorted) == 0 {
		return entries
	}

	minimum := sorted[0].Current
	atMinimum := 0
	for _, c := range sorted {
		if !c.Current.Equal(minimum) {
			break
		}
		atMinimum++
	}

	for i, c := range sorted {
		entry := domain.RankEntry{
			BidderID:       c.BidderID,
			CurrentValue:   c.Current,
			OpeningValue:   c.Opening,
			PercentChange:  PercentChange(c.Opening, c.Current),
			Position:       i + 1,
			SubstituteNote: c.SubstituteNote,
		}
		if i < atMinimum {
			if atMinimum > 1 {
				entry.Label = domain.LabelTie
			} else {
				entry.Label = domain.LabelBest
			}
		}
		entries[i] = entry
	}
	return entries
}
