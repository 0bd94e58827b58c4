package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidRecord is a row of the append-only bid_records table.
type BidRecord struct {
	Seq             int64           `db:"seq"` // BIGSERIAL, the recency marker
	ExchangeID      string          `db:"exchange_id"`
	TargetKind      string          `db:"target_kind"`
	TargetID        string          `db:"target_id"`
	BidderID        string          `db:"bidder_id"`
	AmountHome      decimal.Decimal `db:"amount_home"`
	AmountEUR       decimal.Decimal `db:"amount_eur"`
	AmountUSD       decimal.Decimal `db:"amount_usd"`
	NormalizedValue decimal.Decimal `db:"normalized_value"`
	SubstituteNote  string          `db:"substitute_note"`
	CreatedAt       time.Time       `db:"created_at"`
}
