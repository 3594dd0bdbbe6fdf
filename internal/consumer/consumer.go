package consumer

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// outcome tells the loop what to do with a delivery once it is handled.
type outcome int

const (
	ack outcome = iota
	retry
	drop
)

type handler func(ctx context.Context, msg amqp.Delivery) outcome

// run drains msgs until the channel closes or ctx is canceled. A failed
// message is requeued once; a second failure drops it.
func run(ctx context.Context, name string, log *logrus.Logger, msgs <-chan amqp.Delivery, handle handler) {
	go func() {
		entry := log.WithField("consumer", name)
		for {
			select {
			case <-ctx.Done():
				entry.Info("context canceled, stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					entry.Info("channel closed, stopping consumer")
					return
				}
				settle(entry, msg, handle(ctx, msg))
			}
		}
	}()
}

func settle(entry *logrus.Entry, msg amqp.Delivery, out outcome) {
	var err error
	switch {
	case out == ack:
		err = msg.Ack(false)
	case out == retry && !msg.Redelivered:
		err = msg.Nack(false, true)
	default:
		entry.WithField("routing_key", msg.RoutingKey).Warn("dropping message")
		err = msg.Nack(false, false)
	}
	if err != nil {
		entry.WithError(err).Error("failed to settle message")
	}
}
