package repositories

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// LedgerReader defines indexed reads over the append-only bid ledger.
// Every method is bounded by a target or an exchange; none scans the whole ledger.
type LedgerReader interface {
	// LatestPerBidder returns the highest-sequence entry of each bidder for target.
	LatestPerBidder(ctx context.Context, target domain.TargetRef) ([]domain.BidderValue, error)

	// OpeningPerBidder returns the lowest-sequence entry of each bidder for target.
	OpeningPerBidder(ctx context.Context, target domain.TargetRef) ([]domain.BidderValue, error)

	// BidHistory returns every entry of bidderID for target, oldest first.
	BidHistory(ctx context.Context, target domain.TargetRef, bidderID string) ([]domain.BidRecord, error)

	// LatestPerMaterial returns, for a goods exchange, the latest entry of every
	// (material, bidder) pair. Entries of deleted materials are skipped.
	LatestPerMaterial(ctx context.Context, exchangeID string) ([]domain.BidRecord, error)

	// OpeningPerMaterial is LatestPerMaterial with the first entry of each pair.
	OpeningPerMaterial(ctx context.Context, exchangeID string) ([]domain.BidRecord, error)
}

// LedgerWriter appends to the ledger. It is only reachable through a LedgerUnitOfWork.
type LedgerWriter interface {
	// AppendBid stores rec and returns it with its assigned sequence.
	AppendBid(ctx context.Context, rec domain.BidRecord) (domain.BidRecord, error)
}

// BidLedgerRepositoryFacade is the ledger as seen by services: committed reads
// plus the exchange lock that guards appends.
type BidLedgerRepositoryFacade interface {
	LedgerReader
	ExchangeLocker
}
