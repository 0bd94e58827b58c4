package models

import "github.com/shopspring/decimal"

// Material is a row of the materials table.
type Material struct {
	MaterialID  string          `db:"material_id"`
	ExchangeID  string          `db:"exchange_id"` // FK -> exchanges, ON DELETE CASCADE
	Name        string          `db:"name"`
	Quantity    int64           `db:"quantity"`
	NetWeight   decimal.Decimal `db:"net_weight"`
	GrossWeight decimal.Decimal `db:"gross_weight"`
	Volume      decimal.Decimal `db:"volume"`
	KgPerMetre  decimal.Decimal `db:"kg_per_metre"`
	LengthM     decimal.Decimal `db:"length_m"`
	HSCode      string          `db:"hs_code"`
	CustomsCode string          `db:"customs_code"`
	AuditFields
}
