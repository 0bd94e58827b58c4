package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
)

// Template placeholders.
const (
	PlaceholderExchange  = "{EXCHANGE}"
	PlaceholderDeadline  = "{DEADLINE}"
	PlaceholderLogistics = "{LOGISTICS_TERMS}"
)

// DefaultMailTemplate is used until an admin stores one.
const DefaultMailTemplate = `Hello,

You are invited to take part in the exchange: {EXCHANGE}
Offers are accepted until: {DEADLINE}

{LOGISTICS_TERMS}

Kind regards,
Logistics Department`

type invitationService struct {
	BaseService
	exchangeRepo portsrepo.ExchangeReader
	settingsRepo portsrepo.SettingsRepository
	roster       portsrepo.BidderReader
	dispatcher   portssvc.NotificationDispatcher
}

// NewInvitationService creates the invitation service.
func NewInvitationService(exchangeRepo portsrepo.ExchangeReader, settingsRepo portsrepo.SettingsRepository, roster portsrepo.BidderReader, dispatcher portssvc.NotificationDispatcher) portssvc.InvitationSvcFacade {
	return &invitationService{
		exchangeRepo: exchangeRepo,
		settingsRepo: settingsRepo,
		roster:       roster,
		dispatcher:   dispatcher,
	}
}

var _ portssvc.InvitationSvcFacade = (*invitationService)(nil)

func (s *invitationService) GetMailTemplate(ctx context.Context) (string, error) {
	tmpl, err := s.settingsRepo.GetSetting(ctx, portsrepo.SettingKeyMailTemplate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return DefaultMailTemplate, nil
		}
		s.LogError(ctx, err, "Failed to read mail template")
		return "", err
	}
	return tmpl, nil
}

func (s *invitationService) UpdateMailTemplate(ctx context.Context, template string) error {
	if strings.TrimSpace(template) == "" {
		return fmt.Errorf("%w: template cannot be empty", apperrors.ErrValidation)
	}
	if err := s.settingsRepo.SetSetting(ctx, portsrepo.SettingKeyMailTemplate, template); err != nil {
		s.LogError(ctx, err, "Failed to store mail template")
		return err
	}
	s.LogInfo(ctx, "Mail template updated")
	return nil
}

func (s *invitationService) BuildInvitation(ctx context.Context, exchangeID string) (*domain.Invitation, error) {
	ex, err := s.exchangeRepo.FindExchangeByID(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if ex.IsArchived {
		return nil, fmt.Errorf("%w: archived exchange %s cannot be announced", apperrors.ErrValidation, exchangeID)
	}
	tmpl, err := s.GetMailTemplate(ctx)
	if err != nil {
		return nil, err
	}
	bidders, err := s.roster.ListActiveBidders(ctx, ex.Category)
	if err != nil {
		s.LogError(ctx, err, "Failed to list roster", slog.String("category", string(ex.Category)))
		return nil, err
	}
	recipients := make([]string, 0, len(bidders))
	for _, b := range bidders {
		recipients = append(recipients, b.Email)
	}

	return &domain.Invitation{
		ExchangeID: ex.ExchangeID,
		Subject:    "Invitation to exchange: " + ex.Name,
		Body:       RenderInvitation(tmpl, *ex),
		Recipients: recipients,
	}, nil
}

func (s *invitationService) SendInvitation(ctx context.Context, exchangeID string) (*domain.Invitation, error) {
	inv, err := s.BuildInvitation(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if len(inv.Recipients) == 0 {
		return nil, fmt.Errorf("%w: no active bidders for this category", apperrors.ErrValidation)
	}
	if err := s.dispatcher.DispatchInvitation(ctx, *inv); err != nil {
		s.LogError(ctx, err, "Failed to dispatch invitation", slog.String("exchange_id", exchangeID))
		return nil, apperrors.NewAppError(502, "invitation could not be handed to the mail service", err)
	}
	s.LogInfo(ctx, "Invitation dispatched", slog.String("exchange_id", exchangeID), slog.Int("recipients", len(inv.Recipients)))
	return inv, nil
}

// RenderInvitation fills the template placeholders for ex. Logistics terms are only
// rendered for freight exchanges; missing terms show as "-".
func RenderInvitation(tmpl string, ex domain.Exchange) string {
	logistics := ""
	if ex.Category == domain.CategoryFreight {
		logistics = fmt.Sprintf("Incoterms: %s\nPort of loading: %s\nReady for pickup: %s",
			orDash(ex.Logistics.Incoterms), orDash(ex.Logistics.PortOfLoading), orDash(ex.Logistics.PickupDate))
	}
	return strings.NewReplacer(
		PlaceholderExchange, ex.Name,
		PlaceholderDeadline, ex.Deadline.Format("2006-01-02 15:04"),
		PlaceholderLogistics, logistics,
	).Replace(tmpl)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type rosterService struct {
	BaseService
	bidderRepo portsrepo.BidderRepositoryFacade
}

// NewRosterService creates the roster service.
func NewRosterService(repo portsrepo.BidderRepositoryFacade) portssvc.RosterSvcFacade {
	return &rosterService{bidderRepo: repo}
}

func (s *rosterService) UpsertBidder(ctx context.Context, req dto.UpsertBidderRequest) (*domain.Bidder, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}
	bidder := domain.Bidder{
		BidderID: strings.TrimSpace(req.BidderID),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Category: req.Category,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if bidder.BidderID == "" {
		return nil, fmt.Errorf("%w: bidder ID is required", apperrors.ErrValidation)
	}
	if err := s.bidderRepo.SaveBidder(ctx, bidder); err != nil {
		s.LogError(ctx, err, "Failed to save bidder", slog.String("bidder_id", bidder.BidderID))
		return nil, err
	}
	s.LogInfo(ctx, "Bidder saved", slog.String("bidder_id", bidder.BidderID), slog.Bool("active", bidder.IsActive))
	return &bidder, nil
}

func (s *rosterService) ListActiveBidders(ctx context.Context, category domain.Category) ([]domain.Bidder, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, category)
	}
	return s.bidderRepo.ListActiveBidders(ctx, category)
}
