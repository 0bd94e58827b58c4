package domain

import "github.com/shopspring/decimal"

// Material is one line of a goods exchange; every material is priced on its own.
type Material struct {
	MaterialID  string          `json:"materialID"`
	ExchangeID  string          `json:"exchangeID"`
	Name        string          `json:"name"`
	Quantity    int64           `json:"quantity"`
	NetWeight   decimal.Decimal `json:"netWeight"`
	GrossWeight decimal.Decimal `json:"grossWeight"`
	Volume      decimal.Decimal `json:"volume"`
	KgPerMetre  decimal.Decimal `json:"kgPerMetre"`
	LengthM     decimal.Decimal `json:"lengthM"`
	HSCode      string          `json:"hsCode"`
	CustomsCode string          `json:"customsCode"`
	AuditFields
}

// DeriveNetWeight sets NetWeight to quantity x length x kg/m when all three are positive.
func (m *Material) DeriveNetWeight() {
	qty := decimal.NewFromInt(m.Quantity)
	if qty.IsPositive() && m.LengthM.IsPositive() && m.KgPerMetre.IsPositive() {
		m.NetWeight = qty.Mul(m.LengthM).Mul(m.KgPerMetre).Round(2)
	}
}
