package dto

import (
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RankEntryResponse is one row of a rank table.
type RankEntryResponse struct {
	BidderID       string          `json:"bidderID"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	OpeningValue   decimal.Decimal `json:"openingValue"`
	PercentChange  decimal.Decimal `json:"percentChange"`
	RankOrLabel    string          `json:"rankOrLabel"`
	SubstituteNote string          `json:"substituteNote,omitempty"`
}

// RankTableResponse is the ranking of one target.
type RankTableResponse struct {
	TargetKind domain.TargetKind   `json:"targetKind"`
	TargetID   string              `json:"targetID"`
	LeaderID   string              `json:"leaderID,omitempty"`
	Entries    []RankEntryResponse `json:"entries"`
}

// ExchangeRankingsResponse holds every rank table of an exchange.
type ExchangeRankingsResponse struct {
	Exchange   ExchangeResponse    `json:"exchange"`
	Leadership RankTableResponse   `json:"leadership"`
	Materials  []RankTableResponse `json:"materials,omitempty"`
}

// OfferStandingResponse is a bidder's own position on one target.
type OfferStandingResponse struct {
	TargetKind   domain.TargetKind `json:"targetKind"`
	TargetID     string            `json:"targetID"`
	Submitted    bool              `json:"submitted"`
	CurrentValue decimal.Decimal   `json:"currentValue"`
	RankOrLabel  string            `json:"rankOrLabel,omitempty"`
}

// MyOfferResponse is what a bidder sees of one open exchange.
type MyOfferResponse struct {
	Exchange  ExchangeResponse        `json:"exchange"`
	Standings []OfferStandingResponse `json:"standings"`
}

// ToRankEntryResponse converts a domain.RankEntry to RankEntryResponse DTO
func ToRankEntryResponse(e domain.RankEntry) RankEntryResponse {
	return RankEntryResponse{
		BidderID:       e.BidderID,
		CurrentValue:   e.CurrentValue,
		OpeningValue:   e.OpeningValue,
		PercentChange:  e.PercentChange,
		RankOrLabel:    e.RankOrLabel(),
		SubstituteNote: e.SubstituteNote,
	}
}

// ToRankTableResponse converts a domain.RankTable to RankTableResponse DTO
func ToRankTableResponse(t domain.RankTable) RankTableResponse {
	resp := RankTableResponse{
		TargetKind: t.Target.Kind,
		TargetID:   t.Target.ID,
		Entries:    make([]RankEntryResponse, len(t.Entries)),
	}
	if leader, ok := t.Leader(); ok {
		resp.LeaderID = leader
	}
	for i, e := range t.Entries {
		resp.Entries[i] = ToRankEntryResponse(e)
	}
	return resp
}

// ToExchangeRankingsResponse converts domain.ExchangeRankings to its DTO
func ToExchangeRankingsResponse(r *domain.ExchangeRankings, now time.Time) ExchangeRankingsResponse {
	resp := ExchangeRankingsResponse{
		Exchange:   ToExchangeResponse(&r.Exchange, now),
		Leadership: ToRankTableResponse(r.Leadership),
	}
	for _, t := range r.Materials {
		resp.Materials = append(resp.Materials, ToRankTableResponse(t))
	}
	return resp
}

// ToMyOfferResponses converts bidder views to MyOfferResponse DTOs
func ToMyOfferResponses(views []domain.BidderExchangeView, now time.Time) []MyOfferResponse {
	res := make([]MyOfferResponse, len(views))
	for i := range views {
		standings := make([]OfferStandingResponse, len(views[i].Standings))
		for j, s := range views[i].Standings {
			standings[j] = OfferStandingResponse{
				TargetKind:   s.Target.Kind,
				TargetID:     s.Target.ID,
				Submitted:    s.Submitted,
				CurrentValue: s.Entry.CurrentValue,
			}
			if s.Submitted {
				standings[j].RankOrLabel = s.Entry.RankOrLabel()
			}
		}
		res[i] = MyOfferResponse{
			Exchange:  ToExchangeResponse(&views[i].Exchange, now),
			Standings: standings,
		}
	}
	return res
}
