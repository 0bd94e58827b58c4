package services

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
)

// ExchangeReaderSvc defines read operations for exchanges
type ExchangeReaderSvc interface {
	// GetExchange retrieves an exchange by ID.
	GetExchange(ctx context.Context, exchangeID string) (*domain.Exchange, error)

	// ListExchanges returns the admin listing for a view, optionally filtered by category.
	ListExchanges(ctx context.Context, view domain.ExchangeView, category *domain.Category) ([]domain.Exchange, error)

	// ListOpenForBidder returns the open, non-archived exchanges of the bidder's category.
	ListOpenForBidder(ctx context.Context, bidderID string) ([]domain.Exchange, error)
}

// ExchangeWriterSvc defines write operations for exchanges
type ExchangeWriterSvc interface {
	CreateExchange(ctx context.Context, req dto.CreateExchangeRequest, creatorID string) (*domain.Exchange, error)
	UpdateExchangeDetails(ctx context.Context, exchangeID string, req dto.UpdateExchangeDetailsRequest, userID string) (*domain.Exchange, error)
	// ToggleLock flips the locked flag of a non-archived exchange.
	ToggleLock(ctx context.Context, exchangeID, userID string) (*domain.Exchange, error)
	// ArchiveExchange moves an exchange into folder. It cannot be undone.
	ArchiveExchange(ctx context.Context, exchangeID, folder, userID string) (*domain.Exchange, error)
	DeleteExchange(ctx context.Context, exchangeID string) error
}

// ExchangeSvcFacade combines all exchange-related service interfaces
type ExchangeSvcFacade interface {
	ExchangeReaderSvc
	ExchangeWriterSvc
}

// MaterialSvcFacade manages the goods lines of an exchange
type MaterialSvcFacade interface {
	AddMaterial(ctx context.Context, exchangeID string, req dto.CreateMaterialRequest, userID string) (*domain.Material, error)
	ListMaterials(ctx context.Context, exchangeID string) ([]domain.Material, error)
	DeleteMaterial(ctx context.Context, exchangeID, materialID string) error
}

// RateProvider suggests home-currency rates for new exchanges.
type RateProvider interface {
	// SuggestRates never fails; it falls back to configured defaults.
	SuggestRates(ctx context.Context) domain.Rates
}
