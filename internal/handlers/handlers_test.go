package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/core/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/SscSPs/reverse_auction_app/internal/handlers"
	"github.com/SscSPs/reverse_auction_app/internal/middleware"
	"github.com/SscSPs/reverse_auction_app/internal/platform/config"
	"github.com/SscSPs/reverse_auction_app/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "handlers-test-secret"

// --- Mock NotificationDispatcher ---
type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) DispatchDisplacement(ctx context.Context, event domain.DisplacementEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotificationDispatcher) DispatchInvitation(ctx context.Context, invitation domain.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router     *gin.Engine
	dispatcher *MockNotificationDispatcher
	adminToken string
}

func (suite *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *HandlersTestSuite) SetupTest() {
	cfg := &config.Config{
		JWTSecret:      testJWTSecret,
		IsProduction:   true,
		DefaultEURRate: decimal.NewFromFloat(4.3),
		DefaultUSDRate: decimal.NewFromInt(4),
	}
	suite.dispatcher = new(MockNotificationDispatcher)
	container := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(nil), suite.dispatcher)

	lim, err := middleware.NewRateLimiter("3-M")
	suite.Require().NoError(err)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container, middleware.RateLimit(lim))
	suite.adminToken = suite.token("buyer-1", middleware.RoleAdmin)

	for _, id := range []string{"fwd-a", "fwd-b"} {
		w := suite.do(http.MethodPut, "/api/v1/admin/bidders", suite.adminToken, dto.UpsertBidderRequest{
			BidderID: id,
			Email:    id + "@forwarders.test",
			Category: domain.CategoryFreight,
		})
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}
}

func (suite *HandlersTestSuite) token(subject, role string) string {
	claims := middleware.AuctionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *HandlersTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		suite.Require().NoError(err)
	}
	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) createFreightExchange(name string) dto.ExchangeResponse {
	eur, usd := decimal.NewFromFloat(4.3), decimal.NewFromInt(4)
	w := suite.do(http.MethodPost, "/api/v1/admin/exchanges", suite.adminToken, dto.CreateExchangeRequest{
		Name:          name,
		Category:      domain.CategoryFreight,
		Deadline:      time.Now().Add(24 * time.Hour),
		EURRate:       &eur,
		USDRate:       &usd,
		NotifyEnabled: true,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.ExchangeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StateOpen, resp.State)
	return resp
}

func (suite *HandlersTestSuite) submitFreight(exchangeID, token, home string) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/v1/exchanges/"+exchangeID+"/bids/freight", token, dto.SubmitFreightBidRequest{Home: home})
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestMissingToken() {
	w := suite.do(http.MethodGet, "/api/v1/exchanges/open", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/exchanges/open", "not-a-jwt", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestAdminRoutesNeedAdminRole() {
	w := suite.do(http.MethodGet, "/api/v1/admin/exchanges", suite.token("fwd-a", "bidder"), nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestSubmitAndOutbid() {
	ex := suite.createFreightExchange("Hamburg")
	tokenA, tokenB := suite.token("fwd-a", ""), suite.token("fwd-b", "")

	w := suite.submitFreight(ex.ExchangeID, tokenA, "400")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var first dto.SubmissionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	suite.Require().Len(first.Records, 1)
	suite.True(decimal.NewFromInt(100).Equal(first.Records[0].NormalizedValue))

	suite.dispatcher.On("DispatchDisplacement", mock.Anything, mock.MatchedBy(func(e domain.DisplacementEvent) bool {
		return e.DisplacedBidderID == "fwd-a" && e.DisplacedEmail == "fwd-a@forwarders.test" && e.NewRank == 2
	})).Return(nil).Once()

	w = suite.submitFreight(ex.ExchangeID, tokenB, "360,50")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.dispatcher.AssertExpectations(suite.T())

	w = suite.do(http.MethodGet, "/api/v1/admin/exchanges/"+ex.ExchangeID+"/rankings", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var rankings dto.ExchangeRankingsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rankings))
	suite.Equal("fwd-b", rankings.Leadership.LeaderID)
	suite.Require().Len(rankings.Leadership.Entries, 2)
	suite.Equal(string(domain.LabelBest), rankings.Leadership.Entries[0].RankOrLabel)
	suite.Equal("2", rankings.Leadership.Entries[1].RankOrLabel)

	w = suite.do(http.MethodGet, "/api/v1/exchanges/open", tokenA, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var open []dto.ExchangeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &open))
	suite.Len(open, 1)
}

func (suite *HandlersTestSuite) TestSubmitToLockedExchange() {
	ex := suite.createFreightExchange("Locked")

	w := suite.do(http.MethodPost, "/api/v1/admin/exchanges/"+ex.ExchangeID+"/toggle-lock", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.submitFreight(ex.ExchangeID, suite.token("fwd-a", ""), "100")
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestSubmitToUnknownExchange() {
	w := suite.submitFreight("missing", suite.token("fwd-a", ""), "100")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestCustomsCodeValidation() {
	ex := suite.createFreightExchange("Customs")

	w := suite.do(http.MethodPatch, "/api/v1/admin/exchanges/"+ex.ExchangeID, suite.adminToken, map[string]string{"customsCode": "too-short"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/admin/exchanges/"+ex.ExchangeID, suite.adminToken, map[string]string{"customsCode": "26PL44302000123456"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ExchangeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("26PL44302000123456", resp.CustomsCode)
}

func (suite *HandlersTestSuite) TestSubmissionRateLimit() {
	ex := suite.createFreightExchange("Busy")
	token := suite.token("fwd-a", "")

	for i := 0; i < 3; i++ {
		w := suite.submitFreight(ex.ExchangeID, token, "100")
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}
	w := suite.submitFreight(ex.ExchangeID, token, "90")
	suite.Equal(http.StatusTooManyRequests, w.Code)

	// reads are not limited
	w = suite.do(http.MethodGet, "/api/v1/exchanges/open", token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestBidHistoryPages() {
	ex := suite.createFreightExchange("History")
	token := suite.token("fwd-a", "")
	for _, home := range []string{"400", "380", "360"} {
		w := suite.submitFreight(ex.ExchangeID, token, home)
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}
	path := "/api/v1/exchanges/" + ex.ExchangeID + "/bids?target_kind=EXCHANGE&limit=2"

	w := suite.do(http.MethodGet, path, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var first dto.BidHistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	suite.Require().Len(first.Records, 2)
	suite.True(decimal.NewFromInt(100).Equal(first.Records[0].NormalizedValue))
	suite.Require().NotNil(first.NextToken)

	w = suite.do(http.MethodGet, path+"&next_token="+*first.NextToken, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var second dto.BidHistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &second))
	suite.Require().Len(second.Records, 1)
	suite.True(decimal.NewFromInt(90).Equal(second.Records[0].NormalizedValue))
	suite.Nil(second.NextToken)

	// another bidder cannot reuse the token
	w = suite.do(http.MethodGet, path+"&next_token="+*first.NextToken, suite.token("fwd-b", ""), nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/exchanges/"+ex.ExchangeID+"/bids?target_kind=BASKET", token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestSendInvitation() {
	ex := suite.createFreightExchange("Invite")
	suite.dispatcher.On("DispatchInvitation", mock.Anything, mock.MatchedBy(func(inv domain.Invitation) bool {
		return len(inv.Recipients) == 2 && inv.Subject == "Invitation to exchange: Invite"
	})).Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/exchanges/"+ex.ExchangeID+"/invitation/send", suite.adminToken, nil)
	suite.Equal(http.StatusAccepted, w.Code, w.Body.String())
	suite.dispatcher.AssertExpectations(suite.T())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
