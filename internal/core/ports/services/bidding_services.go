package services

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
)

// BiddingSvcFacade records submissions and serves a bidder's own history.
type BiddingSvcFacade interface {
	// SubmitFreightBid records one composite value for a freight exchange.
	SubmitFreightBid(ctx context.Context, exchangeID, bidderID string, req dto.SubmitFreightBidRequest) (*domain.SubmissionResult, error)

	// SubmitGoodsBid records one price per listed material of a goods exchange.
	SubmitGoodsBid(ctx context.Context, exchangeID, bidderID string, req dto.SubmitGoodsBidRequest) (*domain.SubmissionResult, error)

	// BidHistory lists the bidder's entries for a target, oldest first.
	BidHistory(ctx context.Context, exchangeID string, target domain.TargetRef, bidderID string) ([]domain.BidRecord, error)
}

// RankingSvcFacade resolves rank tables. Every method is a pure read.
type RankingSvcFacade interface {
	RankTable(ctx context.Context, exchangeID string, target domain.TargetRef) (*domain.RankTable, error)
	ExchangeRankings(ctx context.Context, exchangeID string) (*domain.ExchangeRankings, error)
	// MyOffers returns the bidder's standing on every open exchange of their category.
	MyOffers(ctx context.Context, bidderID string) ([]domain.BidderExchangeView, error)
}

// NotificationDispatcher hands events to the mail collaborator. It decides nothing.
type NotificationDispatcher interface {
	DispatchDisplacement(ctx context.Context, event domain.DisplacementEvent) error
	DispatchInvitation(ctx context.Context, invitation domain.Invitation) error
}
