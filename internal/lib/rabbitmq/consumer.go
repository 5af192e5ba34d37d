package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых квитанций.
const maxInFlight = 10

// Consumer описывает канал, из которого читаются сообщения очереди.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// ConsumeQueue читает сообщения очереди квитанций и передаёт их обработчику.
// Сообщение подтверждается после успешной обработки, при ошибке обработчика
// возвращается в очередь. Чтение останавливается при отмене контекста или
// закрытии канала.
func ConsumeQueue(ctx context.Context, ch Consumer, queueName string, handler func([]byte) error, logger *slog.Logger) error {
	const op = "rabbitmq.ConsumeQueue"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(d.Body); err != nil {
						logger.Error("failed to handle message, requeueing",
							slog.String("queue", queueName), sl.Err(err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							logger.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						logger.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
