package repositories

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// ExchangeMutation edits an exchange read under its lock. Returning an error
// leaves the stored exchange untouched.
type ExchangeMutation func(exchange *domain.Exchange) error

// ExchangeReader defines read operations for exchange data
type ExchangeReader interface {
	// FindExchangeByID retrieves an exchange by its ID.
	FindExchangeByID(ctx context.Context, exchangeID string) (*domain.Exchange, error)

	// FindExchangeByName retrieves an exchange by its unique name.
	FindExchangeByName(ctx context.Context, name string) (*domain.Exchange, error)

	// ListExchanges returns exchanges matching filter, newest deadline first.
	ListExchanges(ctx context.Context, filter domain.ExchangeFilter) ([]domain.Exchange, error)
}

// ExchangeWriter defines write operations for exchange data
type ExchangeWriter interface {
	// SaveExchange persists a new exchange.
	SaveExchange(ctx context.Context, exchange domain.Exchange) error

	// ModifyExchange locks the exchange, applies mutate to the current row and
	// writes the mutable fields back before releasing the lock. The lock is the one
	// taken by ledger submissions. Category and rates are never written.
	ModifyExchange(ctx context.Context, exchangeID string, mutate ExchangeMutation) (*domain.Exchange, error)

	// DeleteExchange removes an exchange with its materials and ledger entries.
	DeleteExchange(ctx context.Context, exchangeID string) error
}

// ExchangeRepositoryFacade combines all exchange-related repository interfaces
type ExchangeRepositoryFacade interface {
	ExchangeReader
	ExchangeWriter
}
