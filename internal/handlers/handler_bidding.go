package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/SscSPs/reverse_auction_app/internal/middleware"
	"github.com/SscSPs/reverse_auction_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// biddingHandler serves the bidder side: open exchanges, submissions and own standings.
type biddingHandler struct {
	exchangeService portssvc.ExchangeReaderSvc
	materialService portssvc.MaterialSvcFacade
	biddingService  portssvc.BiddingSvcFacade
	rankingService  portssvc.RankingSvcFacade
	now             func() time.Time
}

func newBiddingHandler(services *portssvc.ServiceContainer) *biddingHandler {
	return &biddingHandler{
		exchangeService: services.Exchange,
		materialService: services.Material,
		biddingService:  services.Bidding,
		rankingService:  services.Ranking,
		now:             time.Now,
	}
}

// RegisterBidderRoutes registers the bidder-facing routes. submitLimit, when not nil,
// is applied to the submission routes only.
func RegisterBidderRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, submitLimit gin.HandlerFunc) {
	h := newBiddingHandler(services)

	rg.GET("/my-offers", h.myOffers)

	exchanges := rg.Group("/exchanges")
	{
		exchanges.GET("/open", h.listOpen)
		exchanges.GET("/:exchange_id/materials", h.listMaterials)
		exchanges.GET("/:exchange_id/bids", h.bidHistory)

		submit := exchanges.Group("/:exchange_id/bids")
		if submitLimit != nil {
			submit.Use(submitLimit)
		}
		submit.POST("/freight", h.submitFreightBid)
		submit.POST("/goods", h.submitGoodsBid)
	}
}

// listOpen godoc
// @Summary List open exchanges
// @Description Lists the open exchanges of the caller's roster category.
// @Tags bidding
// @Produce  json
// @Success 200 {array} dto.ExchangeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Caller is not on the roster"
// @Security BearerAuth
// @Router /exchanges/open [get]
func (h *biddingHandler) listOpen(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bidderID, ok := middleware.GetBidderIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	exchanges, err := h.exchangeService.ListOpenForBidder(c.Request.Context(), bidderID)
	if err != nil {
		respondError(c, logger, err, "Failed to list open exchanges")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeResponse(exchanges, h.now()))
}

// listMaterials godoc
// @Summary List the materials of an exchange
// @Tags bidding
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Success 200 {array} dto.MaterialResponse
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /exchanges/{exchange_id}/materials [get]
func (h *biddingHandler) listMaterials(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	materials, err := h.materialService.ListMaterials(c.Request.Context(), c.Param("exchange_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list materials")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMaterialResponse(materials))
}

// submitFreightBid godoc
// @Summary Submit a freight offer
// @Description Records one offer split into home currency, EUR and USD parts. Amounts accept comma decimals; unparseable parts count as zero.
// @Tags bidding
// @Accept  json
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Param   bid body dto.SubmitFreightBidRequest true "Offer amounts"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unknown exchange"
// @Failure 409 {object} map[string]string "Exchange is not accepting submissions"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security BearerAuth
// @Router /exchanges/{exchange_id}/bids/freight [post]
func (h *biddingHandler) submitFreightBid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	var req dto.SubmitFreightBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "SubmitFreightBid", err)
		return
	}
	bidderID, ok := middleware.GetBidderIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.biddingService.SubmitFreightBid(c.Request.Context(), c.Param("exchange_id"), bidderID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to record submission")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSubmissionResponse(result))
}

// submitGoodsBid godoc
// @Summary Submit goods prices
// @Description Records one price per material (home currency). Blank prices are skipped.
// @Tags bidding
// @Accept  json
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Param   bid body dto.SubmitGoodsBidRequest true "Prices by material ID"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unknown exchange or material"
// @Failure 409 {object} map[string]string "Exchange is not accepting submissions"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security BearerAuth
// @Router /exchanges/{exchange_id}/bids/goods [post]
func (h *biddingHandler) submitGoodsBid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	var req dto.SubmitGoodsBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "SubmitGoodsBid", err)
		return
	}
	bidderID, ok := middleware.GetBidderIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.biddingService.SubmitGoodsBid(c.Request.Context(), c.Param("exchange_id"), bidderID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to record submission")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSubmissionResponse(result))
}

// bidHistory godoc
// @Summary List own bid history
// @Description Lists the caller's entries for one target, oldest first, a page at a time.
// @Tags bidding
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Param   target_kind query string true "EXCHANGE or MATERIAL"
// @Param   target_id query string false "Material ID; defaults to the exchange"
// @Param   limit query int false "Page size (default 50, max 500)"
// @Param   next_token query string false "Token from the previous page"
// @Success 200 {object} dto.BidHistoryResponse
// @Failure 400 {object} map[string]string "Invalid query or token"
// @Failure 404 {object} map[string]string "Unknown target"
// @Security BearerAuth
// @Router /exchanges/{exchange_id}/bids [get]
func (h *biddingHandler) bidHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, logger, "BidHistory", err)
		return
	}
	bidderID, ok := middleware.GetBidderIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	exchangeID := c.Param("exchange_id")
	target := query.ref(exchangeID)
	scope := exchangeID + "|" + target.Key() + "|" + bidderID
	var after int64
	if query.NextToken != "" {
		seq, err := pagination.DecodeSequenceToken(query.NextToken, scope)
		if err != nil {
			logger.Warn("Invalid history token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid next_token"})
			return
		}
		after = seq
	}

	history, err := h.biddingService.BidHistory(c.Request.Context(), exchangeID, target, bidderID)
	if err != nil {
		respondError(c, logger, err, "Failed to read bid history")
		return
	}

	page, more := pagination.PageAfter(history, func(r domain.BidRecord) int64 { return r.Sequence }, after, query.Limit)
	resp := dto.BidHistoryResponse{Records: dto.ToListBidRecordResponse(page)}
	if more {
		token := pagination.EncodeSequenceToken(scope, page[len(page)-1].Sequence)
		resp.NextToken = &token
	}
	c.JSON(http.StatusOK, resp)
}

// myOffers godoc
// @Summary Show own standings
// @Description For every open exchange of the caller's category, the caller's latest value and rank on each target.
// @Tags bidding
// @Produce  json
// @Success 200 {array} dto.MyOfferResponse
// @Failure 404 {object} map[string]string "Caller is not on the roster"
// @Security BearerAuth
// @Router /my-offers [get]
func (h *biddingHandler) myOffers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bidderID, ok := middleware.GetBidderIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	views, err := h.rankingService.MyOffers(c.Request.Context(), bidderID)
	if err != nil {
		respondError(c, logger, err, "Failed to load offers")
		return
	}
	c.JSON(http.StatusOK, dto.ToMyOfferResponses(views, h.now()))
}
