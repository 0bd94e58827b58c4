package mapping

import (
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/models"
)

// ToModelBidRecord converts a domain BidRecord to a model BidRecord. Seq is left to the database.
func ToModelBidRecord(d domain.BidRecord) models.BidRecord {
	return models.BidRecord{
		ExchangeID:      d.ExchangeID,
		TargetKind:      string(d.Target.Kind),
		TargetID:        d.Target.ID,
		BidderID:        d.BidderID,
		AmountHome:      d.Components.Home,
		AmountEUR:       d.Components.EUR,
		AmountUSD:       d.Components.USD,
		NormalizedValue: d.NormalizedValue,
		SubstituteNote:  d.SubstituteNote,
		CreatedAt:       d.CreatedAt.UTC(),
	}
}

// ToDomainBidRecord converts a model BidRecord to a domain BidRecord
func ToDomainBidRecord(m models.BidRecord) domain.BidRecord {
	return domain.BidRecord{
		Sequence:   m.Seq,
		ExchangeID: m.ExchangeID,
		BidderID:   m.BidderID,
		Target:     domain.TargetRef{Kind: domain.TargetKind(m.TargetKind), ID: m.TargetID},
		Components: domain.CurrencyComponents{
			Home: m.AmountHome,
			EUR:  m.AmountEUR,
			USD:  m.AmountUSD,
		},
		NormalizedValue: m.NormalizedValue,
		SubstituteNote:  m.SubstituteNote,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainBidderValue reduces a ledger row to the bidder's value on its target.
func ToDomainBidderValue(m models.BidRecord) domain.BidderValue {
	return domain.BidderValue{
		BidderID:       m.BidderID,
		Value:          m.NormalizedValue,
		Sequence:       m.Seq,
		SubstituteNote: m.SubstituteNote,
	}
}

// ToDomainBidder converts a roster row to a domain Bidder
func ToDomainBidder(m models.Bidder) domain.Bidder {
	return domain.Bidder{
		BidderID: m.BidderID,
		Email:    m.Email,
		Category: domain.Category(m.Category),
		IsActive: m.IsActive,
	}
}
