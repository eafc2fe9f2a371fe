package events

import (
	"context"
	"fmt"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// defaultBrokerTimeout bounds a publish whose context carries no deadline
const defaultBrokerTimeout = 5 * time.Second

// AMQPPublisher publishes to RabbitMQ topic exchanges.
//
// The connection is opened lazily and at most one connection attempt is made
// per Publish call. A broken connection is dropped and reopened by the next
// Publish; the failed message itself is never resent.
//
// Every broker round trip of a Publish (dial, handshake, channel open,
// exchange declare, publish) shares the deadline of its context, and callers
// waiting for another Publish give up when their own context ends.
type AMQPPublisher struct {
	url    string
	logger *zap.Logger

	// sem is a one-slot lock that waiters can abandon
	sem      chan struct{}
	conn     *amqp.Connection
	netConn  net.Conn
	channel  *amqp.Channel
	declared map[string]bool
	closed   bool
}

// NewAMQPPublisher creates a publisher for the broker at url. It does not connect.
func NewAMQPPublisher(url string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{
		url:      url,
		logger:   logger,
		sem:      make(chan struct{}, 1),
		declared: make(map[string]bool),
	}
}

// Publish sends body to exchange with routingKey as a persistent JSON message
func (p *AMQPPublisher) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
	defer func() { <-p.sem }()

	if p.closed {
		return ErrUnavailable
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultBrokerTimeout)
	}

	ch, err := p.channelLocked(ctx, deadline)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer p.disarmLocked()

	if !p.declared[exchange] {
		if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			p.resetLocked()
			return fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
		p.declared[exchange] = true
	}

	err = ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         routingKey,
		Body:         body,
	})
	if err != nil {
		p.resetLocked()
		return fmt.Errorf("publish %s/%s: %w", exchange, routingKey, err)
	}
	return nil
}

// channelLocked returns an open channel with the socket deadline armed.
// A stalled broker makes the socket time out, which closes the connection
// and fails any call waiting on it.
func (p *AMQPPublisher) channelLocked(ctx context.Context, deadline time.Time) (*amqp.Channel, error) {
	if p.channel != nil && !p.channel.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		if err := p.netConn.SetDeadline(deadline); err != nil {
			p.resetLocked()
			return nil, err
		}
		return p.channel, nil
	}
	p.resetLocked()

	var raw net.Conn
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Deadline: deadline}
			c, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// covers the AMQP handshake; the library clears it once the connection is open
			if err := c.SetDeadline(deadline); err != nil {
				_ = c.Close()
				return nil, err
			}
			raw = c
			return c, nil
		},
	})
	if err != nil {
		return nil, err
	}
	p.conn = conn
	p.netConn = raw

	if err := raw.SetDeadline(deadline); err != nil {
		p.resetLocked()
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		p.resetLocked()
		return nil, err
	}

	p.channel = ch
	p.logger.Info("Connected to event broker")
	return ch, nil
}

// disarmLocked lifts the socket deadline so an idle connection survives between publishes
func (p *AMQPPublisher) disarmLocked() {
	if p.netConn != nil {
		_ = p.netConn.SetDeadline(time.Time{})
	}
}

func (p *AMQPPublisher) resetLocked() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.channel = nil
	p.conn = nil
	p.netConn = nil
	p.declared = make(map[string]bool)
}

// Close closes the broker connection. Further publishes fail with ErrUnavailable.
func (p *AMQPPublisher) Close() error {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()

	p.closed = true
	if p.netConn != nil {
		_ = p.netConn.SetDeadline(time.Now().Add(defaultBrokerTimeout))
	}
	p.resetLocked()
	return nil
}
