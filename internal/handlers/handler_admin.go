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

// adminHandler serves materials, rankings, invitations and the roster to buyer-side admins.
type adminHandler struct {
	materialService   portssvc.MaterialSvcFacade
	rankingService    portssvc.RankingSvcFacade
	invitationService portssvc.InvitationSvcFacade
	rosterService     portssvc.RosterSvcFacade
	now               func() time.Time
}

// RegisterAdminRoutes registers every buyer-side route on rg. The caller guards rg
// with middleware.RequireAdmin.
func RegisterAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	registerExchangeAdminRoutes(rg, services.Exchange, services.RateProvider)

	h := &adminHandler{
		materialService:   services.Material,
		rankingService:    services.Ranking,
		invitationService: services.Invitation,
		rosterService:     services.Roster,
		now:               time.Now,
	}

	exchange := rg.Group("/exchanges/:exchange_id")
	{
		exchange.POST("/materials", h.addMaterial)
		exchange.DELETE("/materials/:material_id", h.deleteMaterial)
		exchange.GET("/rankings", h.exchangeRankings)
		exchange.GET("/rank-table", h.rankTable)
		exchange.GET("/invitation", h.buildInvitation)
		exchange.POST("/invitation/send", h.sendInvitation)
	}

	rg.GET("/mail-template", h.getMailTemplate)
	rg.PUT("/mail-template", h.updateMailTemplate)

	rg.GET("/bidders", h.listBidders)
	rg.PUT("/bidders", h.upsertBidder)
}

// addMaterial godoc
// @Summary Add a material to a goods exchange
// @Tags admin materials
// @Accept  json
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Param   material body dto.CreateMaterialRequest true "Material details"
// @Success 201 {object} dto.MaterialResponse
// @Failure 400 {object} map[string]string "Validation error, freight or archived exchange"
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/materials [post]
func (h *adminHandler) addMaterial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "AddMaterial", err)
		return
	}
	userID, _ := middleware.GetBidderIDFromContext(c)

	m, err := h.materialService.AddMaterial(c.Request.Context(), c.Param("exchange_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to add material")
		return
	}
	logger.Info("Material added", slog.String("material_id", m.MaterialID))
	c.JSON(http.StatusCreated, dto.ToMaterialResponse(m))
}

// deleteMaterial godoc
// @Summary Delete a material
// @Description Removes the material and its ledger entries.
// @Tags admin materials
// @Param   exchange_id path string true "Exchange ID"
// @Param   material_id path string true "Material ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Material not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/materials/{material_id} [delete]
func (h *adminHandler) deleteMaterial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("exchange_id", c.Param("exchange_id")),
		slog.String("material_id", c.Param("material_id")),
	)
	if err := h.materialService.DeleteMaterial(c.Request.Context(), c.Param("exchange_id"), c.Param("material_id")); err != nil {
		respondError(c, logger, err, "Failed to delete material")
		return
	}
	c.Status(http.StatusNoContent)
}

// exchangeRankings godoc
// @Summary Show all rank tables of an exchange
// @Description The leadership table (the exchange for freight, the basket for goods) followed by one table per material.
// @Tags admin rankings
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Success 200 {object} dto.ExchangeRankingsResponse
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/rankings [get]
func (h *adminHandler) exchangeRankings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	rankings, err := h.rankingService.ExchangeRankings(c.Request.Context(), c.Param("exchange_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to resolve rankings")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRankingsResponse(rankings, h.now()))
}

// rankTable godoc
// @Summary Show one rank table
// @Tags admin rankings
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Param   target_kind query string true "EXCHANGE, MATERIAL or BASKET"
// @Param   target_id query string false "Material ID; defaults to the exchange"
// @Success 200 {object} dto.RankTableResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 404 {object} map[string]string "Unknown target"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/rank-table [get]
func (h *adminHandler) rankTable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	var query targetQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, logger, "RankTable", err)
		return
	}
	exchangeID := c.Param("exchange_id")
	table, err := h.rankingService.RankTable(c.Request.Context(), exchangeID, query.ref(exchangeID))
	if err != nil {
		respondError(c, logger, err, "Failed to resolve rank table")
		return
	}
	c.JSON(http.StatusOK, dto.ToRankTableResponse(*table))
}

// buildInvitation godoc
// @Summary Preview the invitation of an exchange
// @Description Renders the mail template and lists the active roster of the exchange category as blind copies.
// @Tags admin invitations
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Success 200 {object} dto.InvitationResponse
// @Failure 404 {object} map[string]string "Exchange not found"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/invitation [get]
func (h *adminHandler) buildInvitation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	inv, err := h.invitationService.BuildInvitation(c.Request.Context(), c.Param("exchange_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to build invitation")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationResponse(inv))
}

// sendInvitation godoc
// @Summary Send the invitation of an exchange
// @Tags admin invitations
// @Produce  json
// @Param   exchange_id path string true "Exchange ID"
// @Success 202 {object} dto.InvitationResponse
// @Failure 400 {object} map[string]string "No active recipients"
// @Failure 404 {object} map[string]string "Exchange not found"
// @Failure 502 {object} map[string]string "Mail dispatch failed"
// @Security BearerAuth
// @Router /admin/exchanges/{exchange_id}/invitation/send [post]
func (h *adminHandler) sendInvitation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("exchange_id", c.Param("exchange_id")))
	inv, err := h.invitationService.SendInvitation(c.Request.Context(), c.Param("exchange_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to send invitation")
		return
	}
	logger.Info("Invitation sent", slog.Int("recipients", len(inv.Recipients)))
	c.JSON(http.StatusAccepted, dto.ToInvitationResponse(inv))
}

// getMailTemplate godoc
// @Summary Get the invitation template
// @Tags admin invitations
// @Produce  json
// @Success 200 {object} dto.MailTemplateResponse
// @Security BearerAuth
// @Router /admin/mail-template [get]
func (h *adminHandler) getMailTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tmpl, err := h.invitationService.GetMailTemplate(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to read mail template")
		return
	}
	c.JSON(http.StatusOK, dto.MailTemplateResponse{Template: tmpl})
}

// updateMailTemplate godoc
// @Summary Replace the invitation template
// @Description Placeholders: {EXCHANGE}, {DEADLINE}, {LOGISTICS_TERMS}.
// @Tags admin invitations
// @Accept  json
// @Produce  json
// @Param   template body dto.UpdateMailTemplateRequest true "Template"
// @Success 200 {object} dto.MailTemplateResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /admin/mail-template [put]
func (h *adminHandler) updateMailTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateMailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "UpdateMailTemplate", err)
		return
	}
	if err := h.invitationService.UpdateMailTemplate(c.Request.Context(), req.Template); err != nil {
		respondError(c, logger, err, "Failed to store mail template")
		return
	}
	c.JSON(http.StatusOK, dto.MailTemplateResponse{Template: req.Template})
}

// listBidders godoc
// @Summary List the active roster of a category
// @Tags admin roster
// @Produce  json
// @Param   category query string true "FREIGHT or GOODS"
// @Success 200 {array} dto.BidderResponse
// @Failure 400 {object} map[string]string "Invalid category"
// @Security BearerAuth
// @Router /admin/bidders [get]
func (h *adminHandler) listBidders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query struct {
		Category domain.Category `form:"category" binding:"required,oneof=FREIGHT GOODS"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, logger, "ListBidders", err)
		return
	}
	bidders, err := h.rosterService.ListActiveBidders(c.Request.Context(), query.Category)
	if err != nil {
		respondError(c, logger, err, "Failed to list bidders")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBidderResponse(bidders))
}

// upsertBidder godoc
// @Summary Add or update a roster entry
// @Tags admin roster
// @Accept  json
// @Produce  json
// @Param   bidder body dto.UpsertBidderRequest true "Roster entry"
// @Success 200 {object} dto.BidderResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Email already on the roster"
// @Security BearerAuth
// @Router /admin/bidders [put]
func (h *adminHandler) upsertBidder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertBidderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "UpsertBidder", err)
		return
	}
	b, err := h.rosterService.UpsertBidder(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to store bidder")
		return
	}
	c.JSON(http.StatusOK, dto.ToBidderResponse(b))
}
