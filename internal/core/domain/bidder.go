package domain

// Bidder is a member of the roster: a forwarder or supplier invited to a category.
// Email doubles as the login name in the roster.
type Bidder struct {
	BidderID string   `json:"bidderID"`
	Email    string   `json:"email"`
	Category Category `json:"category"`
	IsActive bool     `json:"isActive"`
}
