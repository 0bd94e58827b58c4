package repositories

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// LedgerUnitOfWork is the view of the ledger handed out inside an exchange lock.
// Reads through it observe appends made earlier in the same unit of work;
// nothing becomes visible to other readers until the unit commits.
type LedgerUnitOfWork interface {
	LedgerReader
	LedgerWriter
}

// LockedFunc runs while the exchange row is held. ex is the state read under the lock.
// Returning an error discards every append made through uow.
type LockedFunc func(ctx context.Context, ex domain.Exchange, uow LedgerUnitOfWork) error

// ExchangeLocker serializes submissions per exchange.
type ExchangeLocker interface {
	// WithExchangeLock locks exchangeID, runs fn and commits its appends atomically.
	// Returns apperrors.ErrUnknownTarget when the exchange does not exist.
	WithExchangeLock(ctx context.Context, exchangeID string, fn LockedFunc) error
}
