package dto

import (
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRequest defines the data needed to open a new exchange.
type CreateExchangeRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Category      domain.Category  `json:"category" binding:"required,oneof=FREIGHT GOODS"`
	Deadline      time.Time        `json:"deadline" binding:"required"`
	EURRate       *decimal.Decimal `json:"eurRate,omitempty"` // defaults to the suggested rate when omitted
	USDRate       *decimal.Decimal `json:"usdRate,omitempty"`
	NotifyEnabled bool             `json:"notifyEnabled"`
	Description   string           `json:"description" binding:"max=2000"`
	Incoterms     string           `json:"incoterms" binding:"max=100"`
	PortOfLoading string           `json:"portOfLoading" binding:"max=200"`
	PickupDate    string           `json:"pickupDate" binding:"max=100"`
}

// UpdateExchangeDetailsRequest holds the fields an admin may change after creation.
// Nil fields are left untouched.
type UpdateExchangeDetailsRequest struct {
	Description   *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Incoterms     *string `json:"incoterms,omitempty" binding:"omitempty,max=100"`
	PortOfLoading *string `json:"portOfLoading,omitempty" binding:"omitempty,max=200"`
	PickupDate    *string `json:"pickupDate,omitempty" binding:"omitempty,max=100"`
	CustomsCode   *string `json:"customsCode,omitempty" binding:"omitempty,customs_code"`
	NotifyEnabled *bool   `json:"notifyEnabled,omitempty"`
}

// ArchiveExchangeRequest names the folder an exchange is archived into.
type ArchiveExchangeRequest struct {
	Folder string `json:"folder" binding:"max=100"`
}

// ListExchangesQuery selects an admin listing.
type ListExchangesQuery struct {
	View     domain.ExchangeView `form:"view" binding:"omitempty,oneof=open closed archive"`
	Category domain.Category     `form:"category" binding:"omitempty,oneof=FREIGHT GOODS"`
}

// ExchangeResponse defines the data returned for an exchange.
type ExchangeResponse struct {
	ExchangeID    string                `json:"exchangeID"`
	Name          string                `json:"name"`
	Category      domain.Category       `json:"category"`
	State         domain.LifecycleState `json:"state"`
	Deadline      time.Time             `json:"deadline"`
	IsLocked      bool                  `json:"isLocked"`
	IsArchived    bool                  `json:"isArchived"`
	ArchiveFolder string                `json:"archiveFolder,omitempty"`
	EURRate       decimal.Decimal       `json:"eurRate"`
	USDRate       decimal.Decimal       `json:"usdRate"`
	NotifyEnabled bool                  `json:"notifyEnabled"`
	Description   string                `json:"description,omitempty"`
	Incoterms     string                `json:"incoterms,omitempty"`
	PortOfLoading string                `json:"portOfLoading,omitempty"`
	PickupDate    string                `json:"pickupDate,omitempty"`
	CustomsCode   string                `json:"customsCode,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
}

// ArchiveFolderResponse groups archived exchanges under their folder label.
type ArchiveFolderResponse struct {
	Folder    string             `json:"folder"`
	Exchanges []ExchangeResponse `json:"exchanges"`
}

// ToExchangeResponse converts a domain.Exchange to ExchangeResponse DTO, with its state at now.
func ToExchangeResponse(ex *domain.Exchange, now time.Time) ExchangeResponse {
	return ExchangeResponse{
		ExchangeID:    ex.ExchangeID,
		Name:          ex.Name,
		Category:      ex.Category,
		State:         ex.State(now),
		Deadline:      ex.Deadline,
		IsLocked:      ex.IsLocked,
		IsArchived:    ex.IsArchived,
		ArchiveFolder: ex.ArchiveFolder,
		EURRate:       ex.Rates.EURRate,
		USDRate:       ex.Rates.USDRate,
		NotifyEnabled: ex.NotifyEnabled,
		Description:   ex.Description,
		Incoterms:     ex.Logistics.Incoterms,
		PortOfLoading: ex.Logistics.PortOfLoading,
		PickupDate:    ex.Logistics.PickupDate,
		CustomsCode:   ex.CustomsCode,
		CreatedAt:     ex.CreatedAt,
		CreatedBy:     ex.CreatedBy,
		LastUpdatedAt: ex.LastUpdatedAt,
		LastUpdatedBy: ex.LastUpdatedBy,
	}
}

// ToListExchangeResponse converts a slice of domain.Exchange to a slice of ExchangeResponse DTOs.
func ToListExchangeResponse(exchanges []domain.Exchange, now time.Time) []ExchangeResponse {
	res := make([]ExchangeResponse, len(exchanges))
	for i := range exchanges {
		res[i] = ToExchangeResponse(&exchanges[i], now)
	}
	return res
}

// ToArchiveFolderResponse groups archived exchanges by folder, keeping first-seen folder order.
func ToArchiveFolderResponse(exchanges []domain.Exchange, now time.Time) []ArchiveFolderResponse {
	index := make(map[string]int)
	var folders []ArchiveFolderResponse
	for i := range exchanges {
		folder := exchanges[i].ArchiveFolder
		if folder == "" {
			folder = domain.DefaultArchiveFolder
		}
		pos, ok := index[folder]
		if !ok {
			pos = len(folders)
			index[folder] = pos
			folders = append(folders, ArchiveFolderResponse{Folder: folder})
		}
		folders[pos].Exchanges = append(folders[pos].Exchanges, ToExchangeResponse(&exchanges[i], now))
	}
	return folders
}
