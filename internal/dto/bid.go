package dto

import (
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitFreightBidRequest carries the raw amounts per currency. Values are strings so
// that comma decimals and blanks are accepted; anything unparseable counts as zero.
type SubmitFreightBidRequest struct {
	Home string `json:"home"`
	EUR  string `json:"eur"`
	USD  string `json:"usd"`
}

// SubmitGoodsBidRequest prices materials of a goods exchange by material ID.
type SubmitGoodsBidRequest struct {
	Prices          map[string]string `json:"prices" binding:"required,min=1"`
	SubstituteNotes map[string]string `json:"substituteNotes,omitempty"`
}

// BidRecordResponse defines the data returned for one ledger entry.
type BidRecordResponse struct {
	Sequence        int64             `json:"sequence"`
	ExchangeID      string            `json:"exchangeID"`
	BidderID        string            `json:"bidderID"`
	TargetKind      domain.TargetKind `json:"targetKind"`
	TargetID        string            `json:"targetID"`
	Home            decimal.Decimal   `json:"home"`
	EUR             decimal.Decimal   `json:"eur"`
	USD             decimal.Decimal   `json:"usd"`
	NormalizedValue decimal.Decimal   `json:"normalizedValue"`
	SubstituteNote  string            `json:"substituteNote,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// BidHistoryResponse is one page of a bidder's ledger entries for a target.
type BidHistoryResponse struct {
	Records   []BidRecordResponse `json:"records"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// SubmissionResponse is returned once a submission has been recorded.
type SubmissionResponse struct {
	Records       []BidRecordResponse `json:"records"`
	OutbidBidders []string            `json:"outbidBidders,omitempty"`
}

// ToBidRecordResponse converts a domain.BidRecord to BidRecordResponse DTO
func ToBidRecordResponse(rec domain.BidRecord) BidRecordResponse {
	return BidRecordResponse{
		Sequence:        rec.Sequence,
		ExchangeID:      rec.ExchangeID,
		BidderID:        rec.BidderID,
		TargetKind:      rec.Target.Kind,
		TargetID:        rec.Target.ID,
		Home:            rec.Components.Home,
		EUR:             rec.Components.EUR,
		USD:             rec.Components.USD,
		NormalizedValue: rec.NormalizedValue,
		SubstituteNote:  rec.SubstituteNote,
		CreatedAt:       rec.CreatedAt,
	}
}

// ToListBidRecordResponse converts ledger entries to BidRecordResponse DTOs
func ToListBidRecordResponse(records []domain.BidRecord) []BidRecordResponse {
	res := make([]BidRecordResponse, len(records))
	for i, rec := range records {
		res[i] = ToBidRecordResponse(rec)
	}
	return res
}

// ToSubmissionResponse converts a domain.SubmissionResult to SubmissionResponse DTO
func ToSubmissionResponse(result *domain.SubmissionResult) SubmissionResponse {
	resp := SubmissionResponse{Records: ToListBidRecordResponse(result.Records)}
	for _, ev := range result.Displacements {
		resp.OutbidBidders = append(resp.OutbidBidders, ev.DisplacedBidderID)
	}
	return resp
}
