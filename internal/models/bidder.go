package models

// Bidder is a row of the bidders roster table.
type Bidder struct {
	BidderID string `db:"bidder_id"`
	Email    string `db:"email"`
	Category string `db:"category"`
	IsActive bool   `db:"is_active"`
}
