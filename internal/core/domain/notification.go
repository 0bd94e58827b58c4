package domain

import "time"

// DisplacementEvent tells a former leader that another bidder undercut them.
type DisplacementEvent struct {
	EventID           string    `json:"eventID"`
	ExchangeID        string    `json:"exchangeID"`
	ExchangeName      string    `json:"exchangeName"`
	Deadline          time.Time `json:"deadline"`
	Target            TargetRef `json:"target"`
	DisplacedBidderID string    `json:"displacedBidderID"`
	DisplacedEmail    string    `json:"displacedEmail"`
	NewLeaderID       string    `json:"newLeaderID,omitempty"`
	NewRank           int       `json:"newRank"`
	NewRankOrLabel    string    `json:"newRankOrLabel"`
	OccurredAt        time.Time `json:"occurredAt"`
}

// Invitation is the announcement of an exchange to the active roster of its category.
type Invitation struct {
	ExchangeID string   `json:"exchangeID"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
}

// LeaderState captures who led a target at one instant.
type LeaderState struct {
	BidderID  string
	HasLeader bool
}
