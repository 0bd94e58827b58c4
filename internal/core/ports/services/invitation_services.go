package services

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
)

// InvitationSvcFacade renders and sends exchange announcements.
type InvitationSvcFacade interface {
	GetMailTemplate(ctx context.Context) (string, error)
	UpdateMailTemplate(ctx context.Context, template string) error
	BuildInvitation(ctx context.Context, exchangeID string) (*domain.Invitation, error)
	SendInvitation(ctx context.Context, exchangeID string) (*domain.Invitation, error)
}

// RosterSvcFacade manages the bidder roster.
type RosterSvcFacade interface {
	UpsertBidder(ctx context.Context, req dto.UpsertBidderRequest) (*domain.Bidder, error)
	ListActiveBidders(ctx context.Context, category domain.Category) ([]domain.Bidder, error)
}
