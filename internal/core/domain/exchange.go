package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category selects how submissions to an exchange are valued.
type Category string

const (
	CategoryFreight Category = "FREIGHT"
	CategoryGoods   Category = "GOODS"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	return c == CategoryFreight || c == CategoryGoods
}

// LifecycleState is the derived state of an exchange at a given instant.
type LifecycleState string

const (
	StateOpen     LifecycleState = "OPEN"
	StateLocked   LifecycleState = "LOCKED"
	StateExpired  LifecycleState = "EXPIRED"
	StateArchived LifecycleState = "ARCHIVED"
)

// DeadlineResolution is the granularity at which deadlines are compared.
const DeadlineResolution = time.Minute

// CustomsCodeLength is the exact length of a customs-clearance code.
const CustomsCodeLength = 18

// DefaultArchiveFolder is used when an exchange is archived without a folder label.
const DefaultArchiveFolder = "Other"

// Rates holds the home-currency price of one foreign unit, frozen at creation.
type Rates struct {
	EURRate decimal.Decimal `json:"eurRate"`
	USDRate decimal.Decimal `json:"usdRate"`
}

// Validate returns an error when any rate is not strictly positive.
func (r Rates) Validate() error {
	if !r.EURRate.IsPositive() {
		return fmt.Errorf("eur rate %s is not positive", r.EURRate)
	}
	if !r.USDRate.IsPositive() {
		return fmt.Errorf("usd rate %s is not positive", r.USDRate)
	}
	return nil
}

// LogisticsTerms are the shipping conditions attached to freight exchanges.
type LogisticsTerms struct {
	Incoterms     string `json:"incoterms"`
	PortOfLoading string `json:"portOfLoading"`
	PickupDate    string `json:"pickupDate"`
}

// Exchange is one auction round: bidders compete for the lowest cost until the deadline.
type Exchange struct {
	ExchangeID    string         `json:"exchangeID"`
	Name          string         `json:"name"`
	Category      Category       `json:"category"`
	Deadline      time.Time      `json:"deadline"`
	IsLocked      bool           `json:"isLocked"`
	IsArchived    bool           `json:"isArchived"`
	ArchiveFolder string         `json:"archiveFolder"`
	Rates         Rates          `json:"rates"`
	NotifyEnabled bool           `json:"notifyEnabled"`
	Description   string         `json:"description"`
	Logistics     LogisticsTerms `json:"logistics"`
	CustomsCode   string         `json:"customsCode"`
	AuditFields
}

// TruncateDeadline brings t down to DeadlineResolution.
func TruncateDeadline(t time.Time) time.Time {
	return t.Truncate(DeadlineResolution)
}

// State derives the lifecycle state at now. Archived wins over locked, locked over expired.
func (e Exchange) State(now time.Time) LifecycleState {
	switch {
	case e.IsArchived:
		return StateArchived
	case e.IsLocked:
		return StateLocked
	case TruncateDeadline(now).After(TruncateDeadline(e.Deadline)):
		return StateExpired
	default:
		return StateOpen
	}
}

// IsOpen reports whether the exchange accepts submissions at now.
func (e Exchange) IsOpen(now time.Time) bool {
	return e.State(now) == StateOpen
}

// ArchiveReadiness returns nil when the exchange may be archived.
func (e Exchange) ArchiveReadiness() error {
	if e.IsArchived {
		return fmt.Errorf("exchange %s is already archived", e.ExchangeID)
	}
	if e.Category == CategoryGoods && len(strings.TrimSpace(e.CustomsCode)) != CustomsCodeLength {
		return fmt.Errorf("goods exchange requires a %d-character customs clearance code", CustomsCodeLength)
	}
	return nil
}

// ExchangeView selects a listing of exchanges.
type ExchangeView string

const (
	ViewOpen    ExchangeView = "open"
	ViewClosed  ExchangeView = "closed"
	ViewArchive ExchangeView = "archive"
)

// ExchangeFilter narrows exchange listings at the repository level.
type ExchangeFilter struct {
	Category *Category
	Archived *bool
	Folder   *string
}
