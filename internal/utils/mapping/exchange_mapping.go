package mapping

import (
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/models"
)

// ToModelExchange converts a domain Exchange to a model Exchange
func ToModelExchange(d domain.Exchange) models.Exchange {
	return models.Exchange{
		ExchangeID:    d.ExchangeID,
		Name:          d.Name,
		Category:      string(d.Category),
		Deadline:      d.Deadline.UTC(),
		IsLocked:      d.IsLocked,
		IsArchived:    d.IsArchived,
		ArchiveFolder: d.ArchiveFolder,
		EURRate:       d.Rates.EURRate,
		USDRate:       d.Rates.USDRate,
		NotifyEnabled: d.NotifyEnabled,
		Description:   d.Description,
		Incoterms:     d.Logistics.Incoterms,
		PortOfLoading: d.Logistics.PortOfLoading,
		PickupDate:    d.Logistics.PickupDate,
		CustomsCode:   d.CustomsCode,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchange converts a model Exchange to a domain Exchange
func ToDomainExchange(m models.Exchange) domain.Exchange {
	return domain.Exchange{
		ExchangeID:    m.ExchangeID,
		Name:          m.Name,
		Category:      domain.Category(m.Category),
		Deadline:      m.Deadline,
		IsLocked:      m.IsLocked,
		IsArchived:    m.IsArchived,
		ArchiveFolder: m.ArchiveFolder,
		Rates:         domain.Rates{EURRate: m.EURRate, USDRate: m.USDRate},
		NotifyEnabled: m.NotifyEnabled,
		Description:   m.Description,
		Logistics: domain.LogisticsTerms{
			Incoterms:     m.Incoterms,
			PortOfLoading: m.PortOfLoading,
			PickupDate:    m.PickupDate,
		},
		CustomsCode: m.CustomsCode,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExchanges converts model rows to domain exchanges
func ToDomainExchanges(ms []models.Exchange) []domain.Exchange {
	out := make([]domain.Exchange, len(ms))
	for i, m := range ms {
		out[i] = ToDomainExchange(m)
	}
	return out
}
