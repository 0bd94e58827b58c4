package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/core/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/SscSPs/reverse_auction_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RankingServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	cache     *countingRankCache
	bidding   portssvc.BiddingSvcFacade
	materials portssvc.MaterialSvcFacade
	service   portssvc.RankingSvcFacade
}

func (suite *RankingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.cache = newCountingRankCache()
	clock := func() time.Time { return testNow }

	repos := portsrepo.RepositoryProvider{
		ExchangeRepo: suite.store,
		MaterialRepo: suite.store,
		LedgerRepo:   suite.store,
		BidderRepo:   suite.store,
		SettingsRepo: suite.store,
		RankCache:    suite.cache,
	}
	exchanges := services.NewExchangeService(suite.store,
		services.WithExchangeRoster(suite.store),
		services.WithExchangeClock(clock))
	suite.service = services.NewRankingService(repos, exchanges)
	suite.materials = services.NewMaterialService(suite.store, suite.store, suite.cache)
	suite.bidding = services.NewBiddingService(suite.store, suite.store, suite.store,
		services.WithBiddingClock(clock),
		services.WithBiddingRankCache(suite.cache))

	for _, b := range []domain.Bidder{
		{BidderID: "fwd-a", Email: "a@forwarders.test", Category: domain.CategoryFreight, IsActive: true},
		{BidderID: "fwd-b", Email: "b@forwarders.test", Category: domain.CategoryFreight, IsActive: true},
		{BidderID: "sup-a", Email: "a@suppliers.test", Category: domain.CategoryGoods, IsActive: true},
		{BidderID: "sup-b", Email: "b@suppliers.test", Category: domain.CategoryGoods, IsActive: true},
	} {
		suite.Require().NoError(suite.store.SaveBidder(suite.ctx, b))
	}
}

func (suite *RankingServiceTestSuite) seed(id string, category domain.Category, locked bool) {
	suite.Require().NoError(suite.store.SaveExchange(suite.ctx, domain.Exchange{
		ExchangeID: id,
		Name:       "Exchange " + id,
		Category:   category,
		Deadline:   testNow.Add(time.Hour),
		Rates:      testRates(),
		IsLocked:   locked,
	}))
}

func (suite *RankingServiceTestSuite) freight(exchangeID, bidderID, home string) {
	_, err := suite.bidding.SubmitFreightBid(suite.ctx, exchangeID, bidderID, dto.SubmitFreightBidRequest{Home: home})
	suite.Require().NoError(err)
}

func (suite *RankingServiceTestSuite) goods(exchangeID, bidderID string, prices map[string]string) {
	_, err := suite.bidding.SubmitGoodsBid(suite.ctx, exchangeID, bidderID, dto.SubmitGoodsBidRequest{Prices: prices})
	suite.Require().NoError(err)
}

func (suite *RankingServiceTestSuite) TestRankTable_Freight() {
	suite.seed("ex-1", domain.CategoryFreight, false)
	suite.freight("ex-1", "fwd-a", "400")
	suite.freight("ex-1", "fwd-b", "360")
	suite.freight("ex-1", "fwd-a", "320")

	table, err := suite.service.RankTable(suite.ctx, "ex-1", domain.ExchangeTarget("ex-1"))
	suite.Require().NoError(err)
	suite.Require().Len(table.Entries, 2)

	leader := table.Entries[0]
	suite.Equal("fwd-a", leader.BidderID)
	suite.Equal(domain.LabelBest, leader.Label)
	suite.True(decimal.NewFromInt(80).Equal(leader.CurrentValue))
	suite.True(decimal.NewFromInt(100).Equal(leader.OpeningValue))
	suite.True(decimal.NewFromInt(20).Equal(leader.PercentChange), "got %s", leader.PercentChange)

	suite.Equal("fwd-b", table.Entries[1].BidderID)
	suite.Equal("2", table.Entries[1].RankOrLabel())
	suite.True(table.Entries[1].PercentChange.IsZero())
}

func (suite *RankingServiceTestSuite) TestRankTable_IsIdempotentAndCached() {
	suite.seed("ex-1", domain.CategoryFreight, false)
	suite.freight("ex-1", "fwd-a", "400")

	first, err := suite.service.RankTable(suite.ctx, "ex-1", domain.ExchangeTarget("ex-1"))
	suite.Require().NoError(err)
	second, err := suite.service.RankTable(suite.ctx, "ex-1", domain.ExchangeTarget("ex-1"))
	suite.Require().NoError(err)
	suite.Equal(first, second)
	suite.Equal(1, suite.cache.hits)
	suite.Equal(1, suite.cache.writes)

	suite.freight("ex-1", "fwd-b", "200")
	third, err := suite.service.RankTable(suite.ctx, "ex-1", domain.ExchangeTarget("ex-1"))
	suite.Require().NoError(err)
	suite.Require().Len(third.Entries, 2)
	suite.Equal("fwd-b", third.Entries[0].BidderID)
	suite.Equal(1, suite.cache.hits)
}

func (suite *RankingServiceTestSuite) TestRankTable_EmptyTarget() {
	suite.seed("ex-1", domain.CategoryFreight, false)
	table, err := suite.service.RankTable(suite.ctx, "ex-1", domain.ExchangeTarget("ex-1"))
	suite.Require().NoError(err)
	suite.Empty(table.Entries)
}

func (suite *RankingServiceTestSuite) TestRankTable_UnknownTargets() {
	suite.seed("ex-1", domain.CategoryFreight, false)

	_, err := suite.service.RankTable(suite.ctx, "missing", domain.ExchangeTarget("missing"))
	suite.ErrorIs(err, apperrors.ErrUnknownTarget)

	_, err = suite.service.RankTable(suite.ctx, "ex-1", domain.BasketTarget("ex-1"))
	suite.ErrorIs(err, apperrors.ErrUnknownTarget)

	_, err = suite.service.RankTable(suite.ctx, "ex-1", domain.ExchangeTarget("ex-2"))
	suite.ErrorIs(err, apperrors.ErrUnknownTarget)
}

func (suite *RankingServiceTestSuite) TestExchangeRankings_Goods() {
	suite.seed("ex-g", domain.CategoryGoods, false)
	m1, err := suite.materials.AddMaterial(suite.ctx, "ex-g", dto.CreateMaterialRequest{Name: "Flat bar", Quantity: 4}, "admin")
	suite.Require().NoError(err)
	m2, err := suite.materials.AddMaterial(suite.ctx, "ex-g", dto.CreateMaterialRequest{Name: "Angle", Quantity: 2}, "admin")
	suite.Require().NoError(err)

	suite.goods("ex-g", "sup-a", map[string]string{m1.MaterialID: "50", m2.MaterialID: "70"})
	suite.goods("ex-g", "sup-b", map[string]string{m1.MaterialID: "60", m2.MaterialID: "40"})
	suite.goods("ex-g", "sup-a", map[string]string{m2.MaterialID: "45"})

	rankings, err := suite.service.ExchangeRankings(suite.ctx, "ex-g")
	suite.Require().NoError(err)

	suite.Equal(domain.BasketTarget("ex-g"), rankings.Leadership.Target)
	suite.Require().Len(rankings.Leadership.Entries, 2)
	// sup-a: 50 + 45, sup-b: 60 + 40
	suite.Equal("sup-a", rankings.Leadership.Entries[0].BidderID)
	suite.True(decimal.NewFromInt(95).Equal(rankings.Leadership.Entries[0].CurrentValue))
	suite.True(decimal.NewFromInt(120).Equal(rankings.Leadership.Entries[0].OpeningValue))

	suite.Require().Len(rankings.Materials, 2)
	suite.Equal(domain.MaterialTarget(m1.MaterialID), rankings.Materials[0].Target)
	suite.Equal("sup-a", rankings.Materials[0].Entries[0].BidderID)
	suite.Equal(domain.MaterialTarget(m2.MaterialID), rankings.Materials[1].Target)
	suite.Equal("sup-b", rankings.Materials[1].Entries[0].BidderID)
}

func (suite *RankingServiceTestSuite) TestExchangeRankings_DeletedMaterialLeavesBasketKeepsLedger() {
	suite.seed("ex-g", domain.CategoryGoods, false)
	m1, err := suite.materials.AddMaterial(suite.ctx, "ex-g", dto.CreateMaterialRequest{Name: "Flat bar", Quantity: 4}, "admin")
	suite.Require().NoError(err)
	m2, err := suite.materials.AddMaterial(suite.ctx, "ex-g", dto.CreateMaterialRequest{Name: "Angle", Quantity: 2}, "admin")
	suite.Require().NoError(err)
	suite.goods("ex-g", "sup-a", map[string]string{m1.MaterialID: "50", m2.MaterialID: "70"})

	before, err := suite.service.ExchangeRankings(suite.ctx, "ex-g")
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(120).Equal(before.Leadership.Entries[0].CurrentValue))

	suite.Require().NoError(suite.materials.DeleteMaterial(suite.ctx, "ex-g", m2.MaterialID))

	after, err := suite.service.ExchangeRankings(suite.ctx, "ex-g")
	suite.Require().NoError(err)
	suite.Len(after.Materials, 1)
	suite.True(decimal.NewFromInt(50).Equal(after.Leadership.Entries[0].CurrentValue))
	suite.True(decimal.NewFromInt(50).Equal(after.Leadership.Entries[0].OpeningValue))

	history, err := suite.store.BidHistory(suite.ctx, domain.MaterialTarget(m2.MaterialID), "sup-a")
	suite.Require().NoError(err)
	suite.Len(history, 1)
	suite.True(decimal.NewFromInt(70).Equal(history[0].NormalizedValue))
}

func (suite *RankingServiceTestSuite) TestMyOffers() {
	suite.seed("ex-1", domain.CategoryFreight, false)
	suite.seed("ex-2", domain.CategoryFreight, false)
	suite.seed("ex-locked", domain.CategoryFreight, true)
	suite.seed("ex-g", domain.CategoryGoods, false)
	suite.freight("ex-1", "fwd-a", "400")
	suite.freight("ex-1", "fwd-b", "300")

	views, err := suite.service.MyOffers(suite.ctx, "fwd-a")
	suite.Require().NoError(err)
	suite.Require().Len(views, 2)

	byID := make(map[string]domain.BidderExchangeView)
	for _, v := range views {
		byID[v.Exchange.ExchangeID] = v
	}
	suite.Require().Contains(byID, "ex-1")
	suite.Require().Contains(byID, "ex-2")

	standing := byID["ex-1"].Standings[0]
	suite.True(standing.Submitted)
	suite.Equal(2, standing.Entry.Position)
	suite.False(byID["ex-2"].Standings[0].Submitted)
}

func (suite *RankingServiceTestSuite) TestMyOffers_UnknownBidder() {
	_, err := suite.service.MyOffers(suite.ctx, "nobody")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestRankingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RankingServiceTestSuite))
}
