package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/platform/config"
	"github.com/google/uuid"
)

func routingKey(base string, t NotificationType) string {
	return base + "." + strings.ToLower(string(t))
}

// LogDispatcher writes messages to the logger instead of delivering them.
type LogDispatcher struct {
	logger *slog.Logger
	now    func() time.Time
}

var _ portssvc.NotificationDispatcher = (*LogDispatcher)(nil)

// NewLogDispatcher uses slog.Default when logger is nil.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger, now: time.Now}
}

func (d *LogDispatcher) DispatchDisplacement(ctx context.Context, event domain.DisplacementEvent) error {
	d.log(ctx, OutbidMessage(event))
	return nil
}

func (d *LogDispatcher) DispatchInvitation(ctx context.Context, invitation domain.Invitation) error {
	d.log(ctx, InvitationMessage(uuid.NewString(), invitation, d.now().UTC()))
	return nil
}

func (d *LogDispatcher) log(ctx context.Context, msg Message) {
	d.logger.InfoContext(ctx, "Mock notification",
		slog.String("id", msg.ID),
		slog.String("type", string(msg.Type)),
		slog.String("exchange_id", msg.ExchangeID),
		slog.Any("to", msg.To),
		slog.Int("bcc_count", len(msg.Bcc)),
		slog.String("subject", msg.Subject),
	)
	d.logger.DebugContext(ctx, "Mock notification body", slog.String("id", msg.ID), slog.String("body", msg.Body))
}

// NewDispatcher builds the dispatcher selected by cfg.NotifyProvider. The returned
// closer releases its connection.
func NewDispatcher(cfg *config.Config, logger *slog.Logger) (portssvc.NotificationDispatcher, io.Closer, error) {
	switch Provider(cfg.NotifyProvider) {
	case ProviderAMQP:
		p, err := NewAMQPPublisher(cfg.AMQPURL, cfg.NotifyExchange, cfg.NotifyRoutingKey)
		if err != nil {
			return nil, nil, fmt.Errorf("amqp notification publisher: %w", err)
		}
		return p, p, nil
	case ProviderLog, "":
		return NewLogDispatcher(logger), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported notification provider: %s", cfg.NotifyProvider)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
