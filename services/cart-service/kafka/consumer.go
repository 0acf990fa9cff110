package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const eventOrderCreated = "order.created"

// OrderCreatedEvent is the part of order-service's event this service reads.
type OrderCreatedEvent struct {
	Type        string   `json:"type"`
	OrderID     string   `json:"orderId"`
	UserID      string   `json:"userId"`
	CartItemIDs []string `json:"cartItemIds"`
}

// CartCleaner removes the cart lines an order consumed.
type CartCleaner interface {
	RemoveOrdered(ctx context.Context, userID string, cartItemIDs []string) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// OrderConsumer reads order events in a consumer group and drops leftover
// cart lines.
type OrderConsumer struct {
	reader  messageReader
	cleaner CartCleaner
	log     *zap.Logger
}

func NewOrderConsumer(brokers []string, topic, groupID string, cleaner CartCleaner, log *zap.Logger) *OrderConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3, // 1KB
		MaxBytes: 1e6, // 1MB
	})
	log.Info("kafka consumer initialized", zap.String("topic", topic), zap.String("group", groupID))
	return &OrderConsumer{reader: r, cleaner: cleaner, log: log}
}

// Run blocks until ctx is cancelled or the reader fails.
func (c *OrderConsumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read order event: %w", err)
		}
		if err := c.Handle(ctx, m.Value); err != nil {
			c.log.Warn("order event not applied",
				zap.Int64("offset", m.Offset), zap.Int("partition", m.Partition), zap.Error(err))
		}
	}
}

// Handle applies one message. Events other than order.created are skipped.
func (c *OrderConsumer) Handle(ctx context.Context, value []byte) error {
	var evt OrderCreatedEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		return fmt.Errorf("invalid order event: %w", err)
	}
	if evt.Type != eventOrderCreated || len(evt.CartItemIDs) == 0 {
		return nil
	}
	if err := c.cleaner.RemoveOrdered(ctx, evt.UserID, evt.CartItemIDs); err != nil {
		return fmt.Errorf("remove ordered cart lines for %s: %w", evt.OrderID, err)
	}
	c.log.Info("cart reconciled with order",
		zap.String("order_id", evt.OrderID), zap.String("user_id", evt.UserID), zap.Int("lines", len(evt.CartItemIDs)))
	return nil
}

func (c *OrderConsumer) Close() error {
	return c.reader.Close()
}
