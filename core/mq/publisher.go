package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"weekend-match-api/core/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for domain events.
const (
	RKSlotOpened       = "slot.opened"
	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKGroupFormed      = "group.formed"
)

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPPublisher struct {
	mu       sync.Mutex
	url      string
	conn     *amqp.Connection
	ch       publishChannel
	exchange string

	// reopen replaces a closed channel, redialing when the connection is gone too
	reopen func() (publishChannel, error)
}

func NewPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange}
	p.reopen = p.openChannel

	ch, err := p.openChannel()
	if err != nil {
		if p.conn != nil {
			_ = p.conn.Close()
		}
		return nil, err
	}
	p.ch = ch
	return p, nil
}

func (p *AMQPPublisher) openChannel() (publishChannel, error) {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return ch, nil
}

// PublishJSON publishes v under key. A channel closed by a broker restart is
// reopened once before the publish is reported as failed.
func (p *AMQPPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         b,
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}

	logger.Warn("MQ:PublishJSON:ChannelClosed, reopening", "key", key)
	ch, rerr := p.reopen()
	if rerr != nil {
		return fmt.Errorf("reopen channel: %w", rerr)
	}
	p.ch = ch
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishJSON(context.Context, string, any) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }

// Emit publishes v and logs instead of failing: domain events are notifications about
// state that is already committed.
func Emit(ctx context.Context, p Publisher, key string, v any) {
	if p == nil {
		return
	}
	if err := p.PublishJSON(ctx, key, v); err != nil {
		logger.Warn("MQ:Emit:Error", "key", key, "error", err)
	}
}
