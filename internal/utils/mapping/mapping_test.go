package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExchangeMapping_KeepsFrozenRatesAndTerms(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	ex := domain.Exchange{
		ExchangeID: "ex-1",
		Name:       "Gdynia to Hamburg",
		Category:   domain.CategoryFreight,
		Deadline:   deadline,
		Rates:      domain.Rates{EURRate: decimal.RequireFromString("4.3125"), USDRate: decimal.RequireFromString("3.9870")},
		Logistics:  domain.LogisticsTerms{Incoterms: "FCA", PortOfLoading: "Gdynia", PickupDate: "2026-03-05"},
	}

	row := mapping.ToModelExchange(ex)
	assert.Equal(t, "FREIGHT", row.Category)
	assert.Equal(t, "FCA", row.Incoterms)

	back := mapping.ToDomainExchange(row)
	assert.True(t, ex.Rates.EURRate.Equal(back.Rates.EURRate))
	assert.Equal(t, ex.Logistics, back.Logistics)
	assert.True(t, deadline.Equal(back.Deadline))
}

func TestBidRecordMapping_TargetAndSequence(t *testing.T) {
	row := mapping.ToModelBidRecord(domain.BidRecord{
		Sequence:        99,
		ExchangeID:      "ex-g",
		BidderID:        "alice",
		Target:          domain.MaterialTarget("m1"),
		NormalizedValue: decimal.NewFromInt(50),
		SubstituteNote:  "S355 instead of S235",
	})
	assert.Zero(t, row.Seq)
	assert.Equal(t, "MATERIAL", row.TargetKind)

	row.Seq = 7
	rec := mapping.ToDomainBidRecord(row)
	assert.Equal(t, int64(7), rec.Sequence)
	assert.Equal(t, domain.MaterialTarget("m1"), rec.Target)

	value := mapping.ToDomainBidderValue(row)
	assert.Equal(t, "alice", value.BidderID)
	assert.Equal(t, "S355 instead of S235", value.SubstituteNote)
}
