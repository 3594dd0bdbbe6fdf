package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "catering"
	ExchangeKind = "topic"

	NotificationQueue = "catering.notifications"
	WarehouseQueue    = "catering.warehouse"

	RoutingNotificationEmail  = "notification.email"
	RoutingWarehouseStock     = "warehouse.stock_changed"
	bindingNotificationPrefix = "notification.*"
	bindingWarehousePrefix    = "warehouse.*"

	prefetch = 8
)

// Consumer reads one durable queue bound to the catering exchange.
type Consumer struct {
	*session
	queue string
}

func NewConsumer(url, queue, bindingKey string) (*Consumer, error) {
	s, err := openSession(url)
	if err != nil {
		return nil, err
	}

	q, err := s.channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq queue declare %s: %w", queue, err)
	}
	if err := s.channel.QueueBind(q.Name, bindingKey, ExchangeName, false, nil); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq queue bind %s: %w", bindingKey, err)
	}
	// At most prefetch unacked deliveries per consumer.
	if err := s.channel.Qos(prefetch, 0, false); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}

	return &Consumer{session: s, queue: q.Name}, nil
}

func NewNotificationConsumer(url string) (*Consumer, error) {
	return NewConsumer(url, NotificationQueue, bindingNotificationPrefix)
}

func NewWarehouseConsumer(url string) (*Consumer, error) {
	return NewConsumer(url, WarehouseQueue, bindingWarehousePrefix)
}

// Consume starts delivery with manual acks; the caller settles every message.
func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume %s: %w", c.queue, err)
	}
	return msgs, nil
}

func (c *Consumer) Close() {
	c.close()
}
