package dto

import (
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMaterialRequest defines one goods line to be priced.
type CreateMaterialRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Quantity    int64           `json:"quantity" binding:"min=0"`
	NetWeight   decimal.Decimal `json:"netWeight"`
	GrossWeight decimal.Decimal `json:"grossWeight"`
	Volume      decimal.Decimal `json:"volume"`
	KgPerMetre  decimal.Decimal `json:"kgPerMetre"`
	LengthM     decimal.Decimal `json:"lengthM"`
	HSCode      string          `json:"hsCode" binding:"max=20"`
	CustomsCode string          `json:"customsCode" binding:"omitempty,customs_code"`
}

// MaterialResponse defines the data returned for a goods line.
type MaterialResponse struct {
	MaterialID  string          `json:"materialID"`
	ExchangeID  string          `json:"exchangeID"`
	Name        string          `json:"name"`
	Quantity    int64           `json:"quantity"`
	NetWeight   decimal.Decimal `json:"netWeight"`
	GrossWeight decimal.Decimal `json:"grossWeight"`
	Volume      decimal.Decimal `json:"volume"`
	KgPerMetre  decimal.Decimal `json:"kgPerMetre"`
	LengthM     decimal.Decimal `json:"lengthM"`
	HSCode      string          `json:"hsCode,omitempty"`
	CustomsCode string          `json:"customsCode,omitempty"`
}

// ToMaterialResponse converts a domain.Material to MaterialResponse DTO
func ToMaterialResponse(m *domain.Material) MaterialResponse {
	return MaterialResponse{
		MaterialID:  m.MaterialID,
		ExchangeID:  m.ExchangeID,
		Name:        m.Name,
		Quantity:    m.Quantity,
		NetWeight:   m.NetWeight,
		GrossWeight: m.GrossWeight,
		Volume:      m.Volume,
		KgPerMetre:  m.KgPerMetre,
		LengthM:     m.LengthM,
		HSCode:      m.HSCode,
		CustomsCode: m.CustomsCode,
	}
}

// ToListMaterialResponse converts a slice of domain.Material to MaterialResponse DTOs
func ToListMaterialResponse(materials []domain.Material) []MaterialResponse {
	res := make([]MaterialResponse, len(materials))
	for i := range materials {
		res[i] = ToMaterialResponse(&materials[i])
	}
	return res
}
