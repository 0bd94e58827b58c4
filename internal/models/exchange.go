package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange is a row of the exchanges table.
type Exchange struct {
	ExchangeID    string          `db:"exchange_id"` // Primary Key (UUID)
	Name          string          `db:"name"`        // Unique
	Category      string          `db:"category"`
	Deadline      time.Time       `db:"deadline"`
	IsLocked      bool            `db:"is_locked"`
	IsArchived    bool            `db:"is_archived"`
	ArchiveFolder string          `db:"archive_folder"`
	EURRate       decimal.Decimal `db:"eur_rate"`
	USDRate       decimal.Decimal `db:"usd_rate"`
	NotifyEnabled bool            `db:"notify_enabled"`
	Description   string          `db:"description"`
	Incoterms     string          `db:"incoterms"`
	PortOfLoading string          `db:"port_of_loading"`
	PickupDate    string          `db:"pickup_date"`
	CustomsCode   string          `db:"customs_code"`
	AuditFields
}
