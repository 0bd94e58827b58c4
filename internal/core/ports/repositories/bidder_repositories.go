package repositories

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// BidderReader defines read operations on the bidder roster
type BidderReader interface {
	FindBidderByID(ctx context.Context, bidderID string) (*domain.Bidder, error)
	// ListActiveBidders returns the active roster of a category ordered by email.
	ListActiveBidders(ctx context.Context, category domain.Category) ([]domain.Bidder, error)
}

// BidderWriter defines write operations on the bidder roster
type BidderWriter interface {
	// SaveBidder inserts or replaces a roster entry.
	SaveBidder(ctx context.Context, bidder domain.Bidder) error
}

// BidderRepositoryFacade combines all roster repository interfaces
type BidderRepositoryFacade interface {
	BidderReader
	BidderWriter
}
