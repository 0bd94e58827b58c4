package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/core/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/SscSPs/reverse_auction_app/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExchangeServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	cache     *countingRankCache
	rates     *MockRateProvider
	service   portssvc.ExchangeSvcFacade
	materials portssvc.MaterialSvcFacade
}

func (suite *ExchangeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.cache = newCountingRankCache()
	suite.rates = new(MockRateProvider)
	suite.service = services.NewExchangeService(suite.store,
		services.WithRateProvider(suite.rates),
		services.WithExchangeRankCache(suite.cache),
		services.WithExchangeRoster(suite.store),
		services.WithExchangeClock(func() time.Time { return testNow }))
	suite.materials = services.NewMaterialService(suite.store, suite.store, suite.cache)
}

func ptr[T any](v T) *T { return &v }

func (suite *ExchangeServiceTestSuite) createRequest(name string, category domain.Category) dto.CreateExchangeRequest {
	return dto.CreateExchangeRequest{
		Name:          name,
		Category:      category,
		Deadline:      testNow.Add(48*time.Hour + 30*time.Second),
		EURRate:       ptr(decimal.NewFromFloat(4.3)),
		USDRate:       ptr(decimal.NewFromInt(4)),
		NotifyEnabled: true,
		Incoterms:     " FCA ",
		PortOfLoading: "Gdansk",
	}
}

func (suite *ExchangeServiceTestSuite) create(name string, category domain.Category) *domain.Exchange {
	ex, err := suite.service.CreateExchange(suite.ctx, suite.createRequest(name, category), "admin")
	suite.Require().NoError(err)
	return ex
}

// --- Test Cases ---

func (suite *ExchangeServiceTestSuite) TestCreateExchange_Success() {
	creatorUserID := uuid.NewString()
	req := suite.createRequest("  Hamburg 2026/03  ", domain.CategoryFreight)

	ex, err := suite.service.CreateExchange(suite.ctx, req, creatorUserID)
	suite.Require().NoError(err)
	suite.Require().NotNil(ex)

	suite.Equal("Hamburg 2026/03", ex.Name)
	suite.Equal(testNow.Add(48*time.Hour), ex.Deadline)
	suite.Equal("FCA", ex.Logistics.Incoterms)
	suite.Equal(creatorUserID, ex.CreatedBy)
	suite.Equal(domain.StateOpen, ex.State(testNow))
	suite.NotEmpty(ex.ExchangeID)

	stored, err := suite.service.GetExchange(suite.ctx, ex.ExchangeID)
	suite.Require().NoError(err)
	suite.Equal(ex.Name, stored.Name)
	suite.rates.AssertNotCalled(suite.T(), "SuggestRates", mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestCreateExchange_GoodsDropsLogistics() {
	ex := suite.create("Steel Q2", domain.CategoryGoods)
	suite.Equal(domain.LogisticsTerms{}, ex.Logistics)
}

func (suite *ExchangeServiceTestSuite) TestCreateExchange_SuggestedRates() {
	suite.rates.On("SuggestRates", mock.Anything).Return(domain.Rates{
		EURRate: decimal.RequireFromString("4.2871"),
		USDRate: decimal.RequireFromString("3.9512"),
	}).Once()

	req := suite.createRequest("Rotterdam", domain.CategoryFreight)
	req.EURRate = nil
	req.USDRate = ptr(decimal.NewFromInt(4))

	ex, err := suite.service.CreateExchange(suite.ctx, req, "admin")
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("4.2871").Equal(ex.Rates.EURRate))
	suite.True(decimal.NewFromInt(4).Equal(ex.Rates.USDRate))
	suite.rates.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestCreateExchange_ValidationErrors() {
	tests := []struct {
		name    string
		mutate  func(*dto.CreateExchangeRequest)
		wantErr error
	}{
		{"blank name", func(r *dto.CreateExchangeRequest) { r.Name = "   " }, apperrors.ErrValidation},
		{"unknown category", func(r *dto.CreateExchangeRequest) { r.Category = "SERVICES" }, apperrors.ErrValidation},
		{"past deadline", func(r *dto.CreateExchangeRequest) { r.Deadline = testNow.Add(-time.Hour) }, apperrors.ErrValidation},
		{"zero usd rate", func(r *dto.CreateExchangeRequest) { r.USDRate = ptr(decimal.Zero) }, apperrors.ErrInvalidRate},
		{"negative eur rate", func(r *dto.CreateExchangeRequest) { r.EURRate = ptr(decimal.NewFromInt(-1)) }, apperrors.ErrInvalidRate},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := suite.createRequest("Invalid "+tt.name, domain.CategoryFreight)
			tt.mutate(&req)
			ex, err := suite.service.CreateExchange(suite.ctx, req, "admin")
			suite.Nil(ex)
			suite.ErrorIs(err, tt.wantErr)
		})
	}
}

func (suite *ExchangeServiceTestSuite) TestCreateExchange_DeadlineInCurrentMinute() {
	req := suite.createRequest("Last minute", domain.CategoryFreight)
	req.Deadline = testNow.Add(20 * time.Second)
	ex, err := suite.service.CreateExchange(suite.ctx, req, "admin")
	suite.Require().NoError(err)
	suite.Equal(testNow, ex.Deadline)
}

func (suite *ExchangeServiceTestSuite) TestCreateExchange_DuplicateName() {
	suite.create("Hamburg", domain.CategoryFreight)

	_, err := suite.service.CreateExchange(suite.ctx, suite.createRequest("Hamburg", domain.CategoryGoods), "admin")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ExchangeServiceTestSuite) TestCreateExchange_NoRatesWithoutProvider() {
	svc := services.NewExchangeService(suite.store, services.WithExchangeClock(func() time.Time { return testNow }))
	req := suite.createRequest("No rates", domain.CategoryFreight)
	req.EURRate = nil

	_, err := svc.CreateExchange(suite.ctx, req, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeServiceTestSuite) TestListExchanges_Views() {
	open := suite.create("Open", domain.CategoryFreight)
	locked := suite.create("Locked", domain.CategoryFreight)
	goods := suite.create("Goods", domain.CategoryGoods)
	archived := suite.create("Archived", domain.CategoryFreight)

	_, err := suite.service.ToggleLock(suite.ctx, locked.ExchangeID, "admin")
	suite.Require().NoError(err)
	_, err = suite.service.ArchiveExchange(suite.ctx, archived.ExchangeID, "", "admin")
	suite.Require().NoError(err)

	openList, err := suite.service.ListExchanges(suite.ctx, domain.ViewOpen, nil)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{open.ExchangeID, goods.ExchangeID}, exchangeIDs(openList))

	freight := domain.CategoryFreight
	openFreight, err := suite.service.ListExchanges(suite.ctx, domain.ViewOpen, &freight)
	suite.Require().NoError(err)
	suite.Equal([]string{open.ExchangeID}, exchangeIDs(openFreight))

	closed, err := suite.service.ListExchanges(suite.ctx, domain.ViewClosed, nil)
	suite.Require().NoError(err)
	suite.Equal([]string{locked.ExchangeID}, exchangeIDs(closed))

	archive, err := suite.service.ListExchanges(suite.ctx, domain.ViewArchive, nil)
	suite.Require().NoError(err)
	suite.Require().Len(archive, 1)
	suite.Equal(domain.DefaultArchiveFolder, archive[0].ArchiveFolder)

	_, err = suite.service.ListExchanges(suite.ctx, "weekly", nil)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func exchangeIDs(exchanges []domain.Exchange) []string {
	ids := make([]string, len(exchanges))
	for i, ex := range exchanges {
		ids[i] = ex.ExchangeID
	}
	return ids
}

func (suite *ExchangeServiceTestSuite) TestListOpenForBidder() {
	freight := suite.create("Freight", domain.CategoryFreight)
	suite.create("Goods", domain.CategoryGoods)
	suite.Require().NoError(suite.store.SaveBidder(suite.ctx, domain.Bidder{BidderID: "fwd-a", Email: "a@forwarders.test", Category: domain.CategoryFreight, IsActive: true}))
	suite.Require().NoError(suite.store.SaveBidder(suite.ctx, domain.Bidder{BidderID: "fwd-x", Email: "x@forwarders.test", Category: domain.CategoryFreight, IsActive: false}))

	list, err := suite.service.ListOpenForBidder(suite.ctx, "fwd-a")
	suite.Require().NoError(err)
	suite.Equal([]string{freight.ExchangeID}, exchangeIDs(list))

	list, err = suite.service.ListOpenForBidder(suite.ctx, "fwd-x")
	suite.Require().NoError(err)
	suite.Empty(list)

	_, err = suite.service.ListOpenForBidder(suite.ctx, "nobody")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExchangeServiceTestSuite) TestUpdateExchangeDetails() {
	ex := suite.create("Update me", domain.CategoryGoods)

	updated, err := suite.service.UpdateExchangeDetails(suite.ctx, ex.ExchangeID, dto.UpdateExchangeDetailsRequest{
		Description:   ptr("  Hot rolled profiles  "),
		Incoterms:     ptr("EXW"),
		CustomsCode:   ptr("26PL44302000123456"),
		NotifyEnabled: ptr(false),
	}, "editor")
	suite.Require().NoError(err)
	suite.Equal("Hot rolled profiles", updated.Description)
	suite.Equal("26PL44302000123456", updated.CustomsCode)
	suite.False(updated.NotifyEnabled)
	suite.Empty(updated.Logistics.Incoterms)
	suite.Equal("editor", updated.LastUpdatedBy)

	_, err = suite.service.UpdateExchangeDetails(suite.ctx, ex.ExchangeID, dto.UpdateExchangeDetailsRequest{CustomsCode: ptr("short")}, "editor")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeServiceTestSuite) TestToggleLock() {
	ex := suite.create("Toggle", domain.CategoryFreight)

	locked, err := suite.service.ToggleLock(suite.ctx, ex.ExchangeID, "admin")
	suite.Require().NoError(err)
	suite.True(locked.IsLocked)
	suite.Equal(domain.StateLocked, locked.State(testNow))

	unlocked, err := suite.service.ToggleLock(suite.ctx, ex.ExchangeID, "admin")
	suite.Require().NoError(err)
	suite.False(unlocked.IsLocked)

	gen, err := suite.cache.Generation(suite.ctx, ex.ExchangeID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), gen)

	_, err = suite.service.ToggleLock(suite.ctx, "missing", "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExchangeServiceTestSuite) TestArchiveExchange_GoodsNeedsCustomsCode() {
	ex := suite.create("Goods archive", domain.CategoryGoods)

	_, err := suite.service.ArchiveExchange(suite.ctx, ex.ExchangeID, "2026", "admin")
	suite.ErrorIs(err, apperrors.ErrArchiveRequirement)

	_, err = suite.service.UpdateExchangeDetails(suite.ctx, ex.ExchangeID, dto.UpdateExchangeDetailsRequest{CustomsCode: ptr("26PL44302000123456")}, "admin")
	suite.Require().NoError(err)

	archived, err := suite.service.ArchiveExchange(suite.ctx, ex.ExchangeID, " 2026 ", "admin")
	suite.Require().NoError(err)
	suite.True(archived.IsArchived)
	suite.Equal("2026", archived.ArchiveFolder)
	suite.Equal(domain.StateArchived, archived.State(testNow))
}

func (suite *ExchangeServiceTestSuite) TestArchivedExchangeIsReadOnly() {
	ex := suite.create("Frozen", domain.CategoryGoods)
	_, err := suite.service.UpdateExchangeDetails(suite.ctx, ex.ExchangeID, dto.UpdateExchangeDetailsRequest{CustomsCode: ptr("26PL44302000123456")}, "admin")
	suite.Require().NoError(err)
	_, err = suite.service.ArchiveExchange(suite.ctx, ex.ExchangeID, "", "admin")
	suite.Require().NoError(err)

	_, err = suite.service.ArchiveExchange(suite.ctx, ex.ExchangeID, "", "admin")
	suite.ErrorIs(err, apperrors.ErrArchiveRequirement)

	_, err = suite.service.ToggleLock(suite.ctx, ex.ExchangeID, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.UpdateExchangeDetails(suite.ctx, ex.ExchangeID, dto.UpdateExchangeDetailsRequest{Description: ptr("late")}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.materials.AddMaterial(suite.ctx, ex.ExchangeID, dto.CreateMaterialRequest{Name: "Late line"}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeServiceTestSuite) TestDeleteExchange() {
	ex := suite.create("Delete me", domain.CategoryFreight)

	suite.Require().NoError(suite.service.DeleteExchange(suite.ctx, ex.ExchangeID))
	_, err := suite.service.GetExchange(suite.ctx, ex.ExchangeID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	err = suite.service.DeleteExchange(suite.ctx, ex.ExchangeID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExchangeServiceTestSuite) TestMaterials() {
	goods := suite.create("Goods lines", domain.CategoryGoods)
	freight := suite.create("Freight lines", domain.CategoryFreight)

	m, err := suite.materials.AddMaterial(suite.ctx, goods.ExchangeID, dto.CreateMaterialRequest{
		Name:       " Flat bar 40x5 ",
		Quantity:   10,
		LengthM:    decimal.NewFromInt(6),
		KgPerMetre: decimal.NewFromFloat(1.57),
	}, "admin")
	suite.Require().NoError(err)
	suite.Equal("Flat bar 40x5", m.Name)
	suite.True(decimal.NewFromFloat(94.2).Equal(m.NetWeight), "got %s", m.NetWeight)

	_, err = suite.materials.AddMaterial(suite.ctx, freight.ExchangeID, dto.CreateMaterialRequest{Name: "Nope"}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	list, err := suite.materials.ListMaterials(suite.ctx, freight.ExchangeID)
	suite.Require().NoError(err)
	suite.NotNil(list)
	suite.Empty(list)

	list, err = suite.materials.ListMaterials(suite.ctx, goods.ExchangeID)
	suite.Require().NoError(err)
	suite.Len(list, 1)

	err = suite.materials.DeleteMaterial(suite.ctx, freight.ExchangeID, m.MaterialID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	other := suite.create("Other goods", domain.CategoryGoods)
	err = suite.materials.DeleteMaterial(suite.ctx, other.ExchangeID, m.MaterialID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Require().NoError(suite.materials.DeleteMaterial(suite.ctx, goods.ExchangeID, m.MaterialID))
	list, err = suite.materials.ListMaterials(suite.ctx, goods.ExchangeID)
	suite.Require().NoError(err)
	suite.Empty(list)
}

func (suite *ExchangeServiceTestSuite) TestToggleLockAndArchiveDoNotOverwriteEachOther() {
	ex := suite.create("Concurrent lifecycle", domain.CategoryFreight)
	repo := &gatedExchangeRepo{Store: suite.store, gate: newGate()}
	service := services.NewExchangeService(repo, services.WithExchangeClock(func() time.Time { return testNow }))

	toggled := make(chan error, 1)
	go func() {
		_, err := service.ToggleLock(suite.ctx, ex.ExchangeID, "admin")
		toggled <- err
	}()
	<-repo.gate.entered

	archived := make(chan error, 1)
	go func() {
		_, err := service.ArchiveExchange(suite.ctx, ex.ExchangeID, "2026", "admin")
		archived <- err
	}()
	close(repo.gate.release)
	suite.Require().NoError(<-toggled)
	suite.Require().NoError(<-archived)

	stored, err := suite.store.FindExchangeByID(suite.ctx, ex.ExchangeID)
	suite.Require().NoError(err)
	suite.True(stored.IsArchived)
	suite.True(stored.IsLocked)
	suite.Equal("2026", stored.ArchiveFolder)

	_, err = service.ToggleLock(suite.ctx, ex.ExchangeID, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestExchangeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeServiceTestSuite))
}
