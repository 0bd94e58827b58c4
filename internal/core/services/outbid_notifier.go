package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// DefaultDispatchTimeout bounds one hand-off to the mail collaborator.
const DefaultDispatchTimeout = 5 * time.Second

// DecideDisplacement compares the leader before a submission with the table after it.
// An event is due when there was a leader, the leader did not submit, and the leader
// no longer holds a unique minimum. A tie counts as losing the lead, so a leader who
// is matched is notified even though the first bidder in sort order could be read as
// still leading.
func DecideDisplacement(ex domain.Exchange, submitterID string, before domain.LeaderState, after domain.RankTable, now time.Time) (domain.DisplacementEvent, bool) {
	if !before.HasLeader || before.BidderID == submitterID {
		return domain.DisplacementEvent{}, false
	}
	newLeader, hasLeader := after.Leader()
	if hasLeader && newLeader == before.BidderID {
		return domain.DisplacementEvent{}, false
	}
	entry, ok := after.Entry(before.BidderID)
	if !ok {
		return domain.DisplacementEvent{}, false
	}
	return domain.DisplacementEvent{
		EventID:           uuid.NewString(),
		ExchangeID:        ex.ExchangeID,
		ExchangeName:      ex.Name,
		Deadline:          ex.Deadline,
		Target:            after.Target,
		DisplacedBidderID: before.BidderID,
		NewLeaderID:       newLeader,
		NewRank:           entry.Position,
		NewRankOrLabel:    entry.RankOrLabel(),
		OccurredAt:        now,
	}, true
}

// OutbidNotifier hands displacement events to the dispatcher. Delivery problems are
// logged and never reach the submitter.
type OutbidNotifier struct {
	BaseService
	dispatcher portssvc.NotificationDispatcher
	roster     portsrepo.BidderReader
	timeout    time.Duration
}

// NewOutbidNotifier creates a notifier. roster may be nil, in which case every
// displaced bidder is notified without an email address.
func NewOutbidNotifier(dispatcher portssvc.NotificationDispatcher, roster portsrepo.BidderReader) *OutbidNotifier {
	return &OutbidNotifier{dispatcher: dispatcher, roster: roster, timeout: DefaultDispatchTimeout}
}

// Notify reports whether the event was handed to the dispatcher. It is skipped when
// the exchange has notifications off or the displaced bidder is not on the active
// roster of the exchange category.
func (n *OutbidNotifier) Notify(ctx context.Context, ex domain.Exchange, event domain.DisplacementEvent) bool {
	if n == nil || n.dispatcher == nil {
		return false
	}
	logAttrs := []any{
		slog.String("exchange_id", ex.ExchangeID),
		slog.String("displaced_bidder_id", event.DisplacedBidderID),
		slog.String("rank", event.NewRankOrLabel),
	}
	if !ex.NotifyEnabled {
		n.LogDebug(ctx, "Notifications disabled, outbid event dropped", logAttrs...)
		return false
	}

	if n.roster != nil {
		bidder, err := n.roster.FindBidderByID(ctx, event.DisplacedBidderID)
		if err != nil {
			n.LogDebug(ctx, "Displaced bidder not on roster, outbid event dropped", append(logAttrs, slog.String("error", err.Error()))...)
			return false
		}
		if !bidder.IsActive || bidder.Category != ex.Category {
			n.LogDebug(ctx, "Displaced bidder not active for category, outbid event dropped", logAttrs...)
			return false
		}
		event.DisplacedEmail = bidder.Email
	}

	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()
	if err := n.dispatcher.DispatchDisplacement(dispatchCtx, event); err != nil {
		n.LogError(ctx, err, "Failed to dispatch outbid notification", logAttrs...)
		return true
	}
	n.LogInfo(ctx, "Outbid notification dispatched", logAttrs...)
	return true
}
