package notifications

import (
	"fmt"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// NotificationType tells the mailer which message it is handling.
type NotificationType string

const (
	Outbid     NotificationType = "OUTBID"
	Invitation NotificationType = "INVITATION"
)

// Provider selects how messages leave the process.
type Provider string

const (
	ProviderAMQP Provider = "amqp"
	ProviderLog  Provider = "log"
)

// Message is the envelope handed to the external mailer. Body is plain text.
type Message struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	ExchangeID string           `json:"exchange_id"`
	To         []string         `json:"to,omitempty"`
	Bcc        []string         `json:"bcc,omitempty"`
	Subject    string           `json:"subject"`
	Body       string           `json:"body"`
	Variables  map[string]any   `json:"variables,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// deadlineLayout renders deadlines at minute resolution.
const deadlineLayout = "2006-01-02 15:04"

// OutbidMessage builds the mail telling a former leader they were undercut.
func OutbidMessage(event domain.DisplacementEvent) Message {
	deadline := event.Deadline.Format(deadlineLayout)
	body := fmt.Sprintf(`Hello,

Your offer in exchange "%s" has been outbid by another supplier.
Your current position: %s.

The exchange is open until %s.
You are welcome to improve your offer.

Kind regards,
Purchasing Team
`, event.ExchangeName, event.NewRankOrLabel, deadline)

	var to []string
	if event.DisplacedEmail != "" {
		to = []string{event.DisplacedEmail}
	}
	return Message{
		ID:         event.EventID,
		Type:       Outbid,
		ExchangeID: event.ExchangeID,
		To:         to,
		Subject:    fmt.Sprintf("Exchange alert: your offer has been outbid (%s)", event.ExchangeName),
		Body:       body,
		Variables: map[string]any{
			"exchange":          event.ExchangeName,
			"deadline":          deadline,
			"rank":              event.NewRankOrLabel,
			"displaced_bidder":  event.DisplacedBidderID,
			"target":            event.Target.Key(),
			"new_leader_bidder": event.NewLeaderID,
		},
		CreatedAt: event.OccurredAt,
	}
}

// InvitationMessage sends the invitation blind to every recipient.
func InvitationMessage(id string, inv domain.Invitation, now time.Time) Message {
	return Message{
		ID:         id,
		Type:       Invitation,
		ExchangeID: inv.ExchangeID,
		Bcc:        inv.Recipients,
		Subject:    inv.Subject,
		Body:       inv.Body,
		CreatedAt:  now,
	}
}
