package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	err       error
	published []amqp.Publishing
	keys      []string
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher(ch publishChannel, reopen func() (publishChannel, error)) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: "weekend.exchange", reopen: reopen}
}

func TestPublishJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch, func() (publishChannel, error) {
		t.Fatal("reopen called on a healthy channel")
		return nil, nil
	})

	if err := p.PublishJSON(context.Background(), RKBookingConfirmed, BookingConfirmed{BookingID: "b1", EventID: "e1"}); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}
	if len(ch.published) != 1 || ch.keys[0] != RKBookingConfirmed {
		t.Fatalf("published %d messages with keys %v", len(ch.published), ch.keys)
	}
	var got BookingConfirmed
	if err := json.Unmarshal(ch.published[0].Body, &got); err != nil || got.BookingID != "b1" {
		t.Errorf("body = %s, err = %v", ch.published[0].Body, err)
	}
	if ch.published[0].DeliveryMode != amqp.Persistent {
		t.Errorf("delivery mode = %d, want persistent", ch.published[0].DeliveryMode)
	}
}

func TestPublishJSON_ReopensClosedChannel(t *testing.T) {
	dead := &fakeChannel{err: amqp.ErrClosed}
	fresh := &fakeChannel{}
	reopened := 0
	p := newTestPublisher(dead, func() (publishChannel, error) {
		reopened++
		return fresh, nil
	})

	if err := p.PublishJSON(context.Background(), RKSlotOpened, SlotOpened{EventID: "e1"}); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}
	if reopened != 1 || len(fresh.published) != 1 {
		t.Fatalf("reopened = %d, published on new channel = %d; want 1 and 1", reopened, len(fresh.published))
	}

	// the new channel is kept for later publishes
	if err := p.PublishJSON(context.Background(), RKSlotOpened, SlotOpened{EventID: "e2"}); err != nil {
		t.Fatalf("second PublishJSON() error = %v", err)
	}
	if reopened != 1 || len(fresh.published) != 2 {
		t.Errorf("reopened = %d, published = %d; want 1 and 2", reopened, len(fresh.published))
	}
}

func TestPublishJSON_ReopenFailure(t *testing.T) {
	dead := &fakeChannel{err: amqp.ErrClosed}
	brokerDown := errors.New("connection refused")
	attempts := 0
	p := newTestPublisher(dead, func() (publishChannel, error) {
		attempts++
		return nil, brokerDown
	})

	for i := 0; i < 2; i++ {
		if err := p.PublishJSON(context.Background(), RKGroupFormed, GroupFormed{}); !errors.Is(err, brokerDown) {
			t.Fatalf("PublishJSON() error = %v, want %v", err, brokerDown)
		}
	}
	if attempts != 2 {
		t.Errorf("reopen attempts = %d, want one per publish", attempts)
	}
}

func TestPublishJSON_OtherErrorsAreReturned(t *testing.T) {
	boom := errors.New("boom")
	p := newTestPublisher(&fakeChannel{err: boom}, func() (publishChannel, error) {
		t.Fatal("reopen called for a non-close error")
		return nil, nil
	})

	if err := p.PublishJSON(context.Background(), RKBookingCreated, BookingCreated{}); !errors.Is(err, boom) {
		t.Errorf("PublishJSON() error = %v, want %v", err, boom)
	}
}
