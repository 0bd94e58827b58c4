package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/SscSPs/reverse_auction_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeHandler handles the buyer-side administration of exchanges.
type exchangeHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
	rateProvider    portssvc.RateProvider
	now             func() time.Time
}

func newExchangeHandler(es portssvc.ExchangeSvcFacade, rp portssvc.RateProvider) *exchangeHandler {
	return &exchangeHandler{exchangeService: es, rateProvider: rp, now: time.Now}
}

func registerExchangeAdminRoutes(rg *gin.RouterGroup, es portssvc.ExchangeSvcFacade, rp portssvc.RateProvider) {
	h := newExchangeHandler(es, rp)

	exchanges := rg.Group("/exchanges")
	{
		exchanges.POST("", h.createExchange)
		exchanges.GET("", h.listExchanges)
		exchanges.GET("/archive", h.listArchive)
		exchanges.GET("/:exchange_id", h.getExchange)
		exchanges.PATCH("/:exchange_id", h.updateExchangeDetails)
		exchanges.POST("/:exchange_id/toggle-lock", h.toggleLock)
		exchanges.POST("/:exchange_id/archive", h.archiveExchange)
		exchanges.DELETE("/:exchange_id", h.deleteExchange)
	}
	rg.GET("/rates/suggestion", h.suggestRates)
}

// createExchange godoc
// @Summary Open a new exchange
// @Description Creates a freight or goods exchange. Rates are frozen at creation; omitted rates are pre-filled from the rate provider.
// @Tags admin exchanges
// @Accept  json
// @Produce  json
// @Param   exchange body dto.CreateExchangeRequest true "Exchange details"
// @Success 201 {object} dto.ExchangeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 409 {object} map[string]string "Exchange name already exists"
// @Failure 500 {object} map[string]string "Failed to create exchange"
// @Security BearerAuth
// @Router /admin/exchanges [post]
func (h *exchangeHandler) createExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "CreateExchange", err)
		return
	}

	userID, _ := middleware.GetBidderIDFromContext(c)
	logger.Info("Received request to create exchange", slog.String("name", req.Name), slog.String("category", string(req.Category)))

	ex, err := h.exchangeService.CreateExchange(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange")
		return
	}

	logger.Info("Exchange created successfully", slog.String("exchange_id", ex.ExchangeID))
	c.JSON(http.StatusCreated, dto.ToExchangeResponse(ex, h.now()))
}

// listExchanges godoc
// @Summary List exchanges
// @Description Lists exchanges of a view: open (default), closed (locked or expired) or archive.
// @Tags admin exchanges
// @Produce  json
// @Param   view query string false "open, closed or archive"
// @Param   category query string false "FREIGHT or GOODS"
// @Success 200 {array} dto.ExchangeResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list exchanges"
// @Security BearerAuth
// @Router /admin/exchanges [get]
func (h *exchangeHandler) listExchanges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	exchanges, ok := h.list(c, logger, "")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeResponse(exchanges, h.now()))
}

// listArchive godoc
// @Summary List archived exchanges by folder
// @Tags admin exchanges
// @Produce  json
// @Param   category query string false "FREIGHT or GOODS"
// @Success 200 {array} dto.ArchiveFolderResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list exchanges"
// @Security BearerAuth
// @Router /admin/exchanges/archive [get]
func (h *exchangeHandler) listArchive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	exchanges, ok := h.list(c, logger, domain.ViewArchive)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToArchiveFolderResponse(exchanges, h.now()))
}

// list binds the listing query. A non-empty view overrides the query parameter.
func (h *exchangeHandler) list(c *gin.Context, logger *slog.Logger, view domain.ExchangeView) ([]domain.Exchange, bool) {
	var query dto.ListExchangesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, logger, "ListExchanges", err)
		return nil, false
	}
	if view == "" {
		view = query.View
	}
	if view == "" {
		view = domain.ViewOpen
	}
	var category *domain.Category
	if query.Category != "" {
		category = &query.Category
	}

	exchanges, err := h.exchangeService.ListExchanges(c.Request.Context(), view, category)
	if err != nil {
		respondError(c, logger, err, "Failed to list exchanges")
		return nil, false
	}
	return exchanges, true
}

// getExchange godoc
// @Summary Get an exchange
// @Tags admin exchanges
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Success 200 {object} dto.ExchangeResponse
// @Failure 404 {object} map[string]string "Exchange not found"
// @Failure 500 {object} map[string]string "Failed to get exchange"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id} [get]
func (h *exchangeHandler) getExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	ex, err := h.exchangeService.GetExchange(c.Request.Context(), c.Param("exchange_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to get exchange")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeResponse(ex, h.now()))
}

// updateExchangeDetails godoc
// @Summary Update exchange details
// @Description Changes description, logistics terms, customs clearance code or the notify flag. Category and rates cannot change.
// @Tags admin exchanges
// @Accept  json
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Param   details body dto.UpdateExchangeDetailsRequest true "Fields to change"
// @Success 200 {object} dto.ExchangeResponse
// @Failure 400 {object} map[string]string "Validation error or archived exchange"
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id} [patch]
func (h *exchangeHandler) updateExchangeDetails(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	var req dto.UpdateExchangeDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "UpdateExchangeDetails", err)
		return
	}
	userID, _ := middleware.GetBidderIDFromContext(c)

	ex, err := h.exchangeService.UpdateExchangeDetails(c.Request.Context(), c.Param("exchange_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update exchange")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeResponse(ex, h.now()))
}

// toggleLock godoc
// @Summary Lock or unlock an exchange
// @Tags admin exchanges
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Success 200 {object} dto.ExchangeResponse
// @Failure 400 {object} map[string]string "Exchange is archived"
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/toggle-lock [post]
func (h *exchangeHandler) toggleLock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	userID, _ := middleware.GetBidderIDFromContext(c)

	ex, err := h.exchangeService.ToggleLock(c.Request.Context(), c.Param("exchange_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to toggle lock")
		return
	}
	logger.Info("Exchange lock toggled", slog.Bool("is_locked", ex.IsLocked))
	c.JSON(http.StatusOK, dto.ToExchangeResponse(ex, h.now()))
}

// archiveExchange godoc
// @Summary Archive an exchange
// @Description Moves an exchange into an archive folder. Goods exchanges need an 18-character customs clearance code first.
// @Tags admin exchanges
// @Accept  json
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Param   archive body dto.ArchiveExchangeRequest false "Archive folder"
// @Success 200 {object} dto.ExchangeResponse
// @Failure 400 {object} map[string]string "Archive requirements not met"
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/archive [post]
func (h *exchangeHandler) archiveExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	var req dto.ArchiveExchangeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, logger, "ArchiveExchange", err)
			return
		}
	}
	userID, _ := middleware.GetBidderIDFromContext(c)

	ex, err := h.exchangeService.ArchiveExchange(c.Request.Context(), c.Param("exchange_id"), req.Folder, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to archive exchange")
		return
	}
	logger.Info("Exchange archived", slog.String("folder", ex.ArchiveFolder))
	c.JSON(http.StatusOK, dto.ToExchangeResponse(ex, h.now()))
}

// deleteExchange godoc
// @Summary Delete an exchange
// @Description Removes the exchange with its materials and every ledger entry.
// @Tags admin exchanges
// @Param   exchange_id path string true "Exchange ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id} [delete]
func (h *exchangeHandler) deleteExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	if err := h.exchangeService.DeleteExchange(c.Request.Context(), c.Param("exchange_id")); err != nil {
		respondError(c, logger, err, "Failed to delete exchange")
		return
	}
	logger.Info("Exchange deleted")
	c.Status(http.StatusNoContent)
}

// suggestRates godoc
// @Summary Suggest currency rates
// @Description Returns the current mid rates for EUR and USD, or the configured defaults when the rate service is unavailable.
// @Tags admin exchanges
// @Produce  json
// @Success 200 {object} dto.RateSuggestionResponse
// @Security BearerAuth
// @Router /admin/rates/suggestion [get]
func (h *exchangeHandler) suggestRates(c *gin.Context) {
	rates := h.rateProvider.SuggestRates(c.Request.Context())
	c.JSON(http.StatusOK, dto.RateSuggestionResponse{
		EURRate: rates.EURRate.StringFixed(4),
		USDRate: rates.USDRate.StringFixed(4),
	})
}
