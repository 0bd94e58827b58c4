package mapping

import (
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/models"
)

// ToModelMaterial converts a domain Material to a model Material
func ToModelMaterial(d domain.Material) models.Material {
	return models.Material{
		MaterialID:  d.MaterialID,
		ExchangeID:  d.ExchangeID,
		Name:        d.Name,
		Quantity:    d.Quantity,
		NetWeight:   d.NetWeight,
		GrossWeight: d.GrossWeight,
		Volume:      d.Volume,
		KgPerMetre:  d.KgPerMetre,
		LengthM:     d.LengthM,
		HSCode:      d.HSCode,
		CustomsCode: d.CustomsCode,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMaterial converts a model Material to a domain Material
func ToDomainMaterial(m models.Material) domain.Material {
	return domain.Material{
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
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
