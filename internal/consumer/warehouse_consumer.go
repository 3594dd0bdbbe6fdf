package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// StockChanged is the payload of a warehouse.stock_changed message, sent
// when product stock is adjusted outside this service.
type StockChanged struct {
	ProductID uint `json:"product_id"`
}

type StockCascader interface {
	OnProductStockChanged(ctx context.Context, productID uint) (*service.CascadeResult, error)
}

// WarehouseConsumer re-derives food, menu and recipe state for products
// whose stock changed elsewhere.
type WarehouseConsumer struct {
	stock StockCascader
	log   *logrus.Logger
}

func NewWarehouseConsumer(stock StockCascader, log *logrus.Logger) *WarehouseConsumer {
	return &WarehouseConsumer{stock: stock, log: log}
}

func (c *WarehouseConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) {
	run(ctx, "warehouse", c.log, msgs, c.handle)
}

func (c *WarehouseConsumer) handle(ctx context.Context, msg amqp.Delivery) outcome {
	// The queue is bound to every warehouse.* key; only stock changes matter here.
	if msg.RoutingKey != rabbitmq.RoutingWarehouseStock {
		return ack
	}

	var event StockChanged
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.ProductID == 0 {
		c.log.WithError(err).Warn("malformed stock event")
		return drop
	}

	result, err := c.stock.OnProductStockChanged(ctx, event.ProductID)
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.log.WithField("product_id", event.ProductID).Warn("stock event for unknown product")
		return drop
	case err != nil:
		c.log.WithError(err).WithField("product_id", event.ProductID).Error("stock cascade failed")
		return retry
	}

	c.log.WithFields(logrus.Fields{
		"product_id": event.ProductID,
		"foods":      len(result.Foods),
		"menus":      len(result.Menus),
		"recipes":    len(result.Recipes),
	}).Info("stock change applied")
	return ack
}
