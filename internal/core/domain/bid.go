package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetKind says what a ledger entry or rank table is about.
type TargetKind string

const (
	// TargetExchange is a whole freight exchange.
	TargetExchange TargetKind = "EXCHANGE"
	// TargetMaterial is a single goods line.
	TargetMaterial TargetKind = "MATERIAL"
	// TargetBasket is the per-bidder sum across every material of a goods exchange.
	// It is derived and never stored in the ledger.
	TargetBasket TargetKind = "BASKET"
)

// TargetRef identifies a rankable target.
type TargetRef struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

// Key is a stable textual form of the target, used for cache fields and logs.
func (t TargetRef) Key() string {
	return string(t.Kind) + ":" + t.ID
}

// ExchangeTarget refers to a whole freight exchange.
func ExchangeTarget(exchangeID string) TargetRef {
	return TargetRef{Kind: TargetExchange, ID: exchangeID}
}

// MaterialTarget refers to one goods line.
func MaterialTarget(materialID string) TargetRef {
	return TargetRef{Kind: TargetMaterial, ID: materialID}
}

// BasketTarget refers to the basket totals of a goods exchange.
func BasketTarget(exchangeID string) TargetRef {
	return TargetRef{Kind: TargetBasket, ID: exchangeID}
}

// CurrencyComponents are the raw amounts a bidder entered, per currency.
type CurrencyComponents struct {
	Home decimal.Decimal `json:"home"`
	EUR  decimal.Decimal `json:"eur"`
	USD  decimal.Decimal `json:"usd"`
}

// BidRecord is an immutable ledger entry. Sequence is assigned by the ledger and
// is the only recency marker: a higher sequence is newer, whatever CreatedAt says.
type BidRecord struct {
	Sequence        int64              `json:"sequence"`
	ExchangeID      string             `json:"exchangeID"`
	BidderID        string             `json:"bidderID"`
	Target          TargetRef          `json:"target"`
	Components      CurrencyComponents `json:"components"`
	NormalizedValue decimal.Decimal    `json:"normalizedValue"`
	SubstituteNote  string             `json:"substituteNote,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// BidderValue is one bidder's value for a target, taken from a single ledger entry
// (or, for baskets, summed from several).
type BidderValue struct {
	BidderID       string          `json:"bidderID"`
	Value          decimal.Decimal `json:"value"`
	Sequence       int64           `json:"sequence"`
	SubstituteNote string          `json:"substituteNote,omitempty"`
}

// SubmissionResult is what one accepted submission produced.
type SubmissionResult struct {
	Records       []BidRecord         `json:"records"`
	Displacements []DisplacementEvent `json:"displacements,omitempty"`
}
