package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes messages to a durable topic exchange. The mailer binds
// its own queue to RoutingKey.
type AMQPPublisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	now        func() time.Time
}

var _ portssvc.NotificationDispatcher = (*AMQPPublisher)(nil)

// NewAMQPPublisher connects and declares exchange.
func NewAMQPPublisher(amqpURL, exchange, routingKey string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}
	return &AMQPPublisher{
		conn:       conn,
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

func (p *AMQPPublisher) DispatchDisplacement(ctx context.Context, event domain.DisplacementEvent) error {
	return p.publish(ctx, OutbidMessage(event))
}

func (p *AMQPPublisher) DispatchInvitation(ctx context.Context, invitation domain.Invitation) error {
	return p.publish(ctx, InvitationMessage(uuid.NewString(), invitation, p.now().UTC()))
}

// routingKeyFor appends the lower-cased message type, e.g. "mail.outbid".
func (p *AMQPPublisher) routingKeyFor(t NotificationType) string {
	return routingKey(p.routingKey, t)
}

func (p *AMQPPublisher) publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		return fmt.Errorf("publish %s message: channel closed", msg.Type)
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKeyFor(msg.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.CreatedAt,
		Type:         string(msg.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s message: %w", msg.Type, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}
