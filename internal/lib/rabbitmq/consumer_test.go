package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeChannel) Consume(_, _ string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deliveries, nil
}

type fakeAcknowledger struct {
	acked   chan uint64
	nacked  chan bool
	rejects chan bool
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{
		acked:   make(chan uint64, 1),
		nacked:  make(chan bool, 1),
		rejects: make(chan bool, 1),
	}
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.acked <- tag
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _, requeue bool) error {
	f.nacked <- requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.rejects <- requeue
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestConsumeQueue(t *testing.T) {
	t.Run("успешная обработка подтверждает сообщение", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 1)}
		ack := newFakeAcknowledger()

		handled := make(chan []byte, 1)
		err := ConsumeQueue(ctx, ch, "notification.receipt", func(body []byte) error {
			handled <- body
			return nil
		}, newNoopLogger())
		require.NoError(t, err)

		ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte(`{"email":"a@x.com"}`)}

		select {
		case body := <-handled:
			assert.Equal(t, `{"email":"a@x.com"}`, string(body))
		case <-time.After(time.Second):
			t.Fatal("handler was not called")
		}

		select {
		case tag := <-ack.acked:
			assert.Equal(t, uint64(7), tag)
		case <-time.After(time.Second):
			t.Fatal("message was not acked")
		}
	})

	t.Run("ошибка обработчика возвращает сообщение в очередь", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 1)}
		ack := newFakeAcknowledger()

		err := ConsumeQueue(ctx, ch, "notification.receipt", func([]byte) error {
			return errors.New("smtp down")
		}, newNoopLogger())
		require.NoError(t, err)

		ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("broken")}

		select {
		case requeue := <-ack.nacked:
			assert.True(t, requeue)
		case <-time.After(time.Second):
			t.Fatal("message was not nacked")
		}
		assert.Empty(t, ack.acked)
	})

	t.Run("ошибка подписки возвращается вызывающему", func(t *testing.T) {
		ch := &fakeChannel{err: errors.New("channel closed")}
		err := ConsumeQueue(context.Background(), ch, "notification.receipt", func([]byte) error {
			return nil
		}, newNoopLogger())
		assert.Error(t, err)
	})
}
