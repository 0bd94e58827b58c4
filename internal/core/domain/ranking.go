package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// RankLabel replaces the numeric rank of the lowest value.
type RankLabel string

const (
	LabelBest RankLabel = "BEST"
	LabelTie  RankLabel = "TIE"
)

// RankEntry is one row of a rank table.
type RankEntry struct {
	BidderID       string          `json:"bidderID"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	OpeningValue   decimal.Decimal `json:"openingValue"`
	PercentChange  decimal.Decimal `json:"percentChange"`
	Position       int             `json:"position"`
	Label          RankLabel       `json:"label,omitempty"`
	SubstituteNote string          `json:"substituteNote,omitempty"`
}

// RankOrLabel renders the label when present, the 1-based position otherwise.
func (e RankEntry) RankOrLabel() string {
	if e.Label != "" {
		return string(e.Label)
	}
	return strconv.Itoa(e.Position)
}

// RankTable is the ordered ranking of one target, lowest value first.
type RankTable struct {
	ExchangeID string      `json:"exchangeID"`
	Target     TargetRef   `json:"target"`
	Entries    []RankEntry `json:"entries"`
}

// Leader returns the bidder holding a unique minimum. A shared minimum has no leader.
func (t RankTable) Leader() (string, bool) {
	if len(t.Entries) == 0 || t.Entries[0].Label != LabelBest {
		return "", false
	}
	return t.Entries[0].BidderID, true
}

// Entry returns the row of bidderID.
func (t RankTable) Entry(bidderID string) (RankEntry, bool) {
	for _, e := range t.Entries {
		if e.BidderID == bidderID {
			return e, true
		}
	}
	return RankEntry{}, false
}

// ExchangeRankings are all rank tables of one exchange. Leadership is the table that
// decides the leader: the exchange itself for freight, the basket for goods.
type ExchangeRankings struct {
	Exchange   Exchange    `json:"exchange"`
	Leadership RankTable   `json:"leadership"`
	Materials  []RankTable `json:"materials,omitempty"`
}

// OfferStanding is a bidder's own row in one rank table.
type OfferStanding struct {
	Target    TargetRef `json:"target"`
	Entry     RankEntry `json:"entry"`
	Submitted bool      `json:"submitted"`
}

// BidderExchangeView is what a bidder sees of one open exchange.
type BidderExchangeView struct {
	Exchange  Exchange        `json:"exchange"`
	Standings []OfferStanding `json:"standings"`
}
