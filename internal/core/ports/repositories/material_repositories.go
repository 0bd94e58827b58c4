package repositories

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// MaterialReader defines read operations for goods lines
type MaterialReader interface {
	FindMaterialByID(ctx context.Context, materialID string) (*domain.Material, error)
	// ListMaterialsByExchange returns the lines of an exchange in creation order.
	ListMaterialsByExchange(ctx context.Context, exchangeID string) ([]domain.Material, error)
}

// MaterialWriter defines write operations for goods lines
type MaterialWriter interface {
	// SaveMaterial adds a line to an exchange that is not archived.
	SaveMaterial(ctx context.Context, material domain.Material) error
	// DeleteMaterial removes the line. Ledger entries priced against it are kept;
	// ledger reads ignore lines that no longer exist.
	DeleteMaterial(ctx context.Context, materialID string) error
}

// MaterialRepositoryFacade combines all material-related repository interfaces
type MaterialRepositoryFacade interface {
	MaterialReader
	MaterialWriter
}
