package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer tails the audit topic and hands records to a handler, e.g. for
// mirroring the trail into operational logs.
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler func(context.Context, Record) error
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("audit_consumer"),
	}
}

func (c *Consumer) RegisterHandler(fn func(context.Context, Record) error) {
	c.handler = fn
}

func (c *Consumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("failed to fetch audit message", zap.Error(err))
				continue
			}

			var record Record
			if err := json.Unmarshal(msg.Value, &record); err != nil {
				c.logger.Error("failed to parse audit record",
					zap.Error(err),
					zap.ByteString("value", msg.Value),
				)
				continue
			}

			if err := c.handler(ctx, record); err != nil {
				c.logger.Error("failed to handle audit record",
					zap.Error(err),
					zap.String("action", string(record.Action)),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("failed to commit audit message",
					zap.Error(err),
					zap.String("action", string(record.Action)),
				)
			}
		}
	}()
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("failed to close Kafka reader", zap.Error(err))
	}
}
