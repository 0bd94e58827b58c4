package dto

import "github.com/SscSPs/reverse_auction_app/internal/core/domain"

// UpdateMailTemplateRequest replaces the invitation template.
type UpdateMailTemplateRequest struct {
	Template string `json:"template" binding:"required,max=10000"`
}

// MailTemplateResponse returns the current invitation template.
type MailTemplateResponse struct {
	Template string `json:"template"`
}

// InvitationResponse shows a rendered invitation and its BCC list.
type InvitationResponse struct {
	ExchangeID string   `json:"exchangeID"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
}

// ToInvitationResponse converts a domain.Invitation to InvitationResponse DTO
func ToInvitationResponse(inv *domain.Invitation) InvitationResponse {
	return InvitationResponse{
		ExchangeID: inv.ExchangeID,
		Subject:    inv.Subject,
		Body:       inv.Body,
		Recipients: inv.Recipients,
	}
}

// UpsertBidderRequest adds or updates a roster entry.
type UpsertBidderRequest struct {
	BidderID string          `json:"bidderID" binding:"required,max=100"`
	Email    string          `json:"email" binding:"required,email"`
	Category domain.Category `json:"category" binding:"required,oneof=FREIGHT GOODS"`
	IsActive *bool           `json:"isActive,omitempty"`
}

// BidderResponse defines the data returned for a roster entry.
type BidderResponse struct {
	BidderID string          `json:"bidderID"`
	Email    string          `json:"email"`
	Category domain.Category `json:"category"`
	IsActive bool            `json:"isActive"`
}

// ToBidderResponse converts a domain.Bidder to BidderResponse DTO
func ToBidderResponse(b *domain.Bidder) BidderResponse {
	return BidderResponse{BidderID: b.BidderID, Email: b.Email, Category: b.Category, IsActive: b.IsActive}
}

// ToListBidderResponse converts roster entries to BidderResponse DTOs
func ToListBidderResponse(bidders []domain.Bidder) []BidderResponse {
	res := make([]BidderResponse, len(bidders))
	for i := range bidders {
		res[i] = ToBidderResponse(&bidders[i])
	}
	return res
}

// RateSuggestionResponse pre-fills the rate fields of a new exchange.
type RateSuggestionResponse struct {
	EURRate string `json:"eurRate"`
	USDRate string `json:"usdRate"`
}
