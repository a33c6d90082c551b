package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/events"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/gsousaaa/ecommerce-aws/pkg/kafka"
	"go.uber.org/zap"
)

// Consumer is the recorder trigger: it receives dispatched product events
// and hands them to the recorder, outside the lifetime of the request
// that emitted them.
type Consumer struct {
	recorder *events.Recorder
	topic    string
	groupID  string
	logger   *zap.Logger
}

func NewConsumer(recorder *events.Recorder, topic, groupID string, logger *zap.Logger) *Consumer {
	return &Consumer{
		recorder: recorder,
		topic:    topic,
		groupID:  groupID,
		logger:   logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		c.groupID,
		[]string{c.topic},
		c.processMessage,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctxlog.Info(
		ctx,
		c.logger,
		"Processing product event",
		zap.String("topic", msg.Topic),
	)

	var event domain.ProductEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		ctxlog.Error(ctx, c.logger, "Error unmarshalling product event", zap.Error(err))
		return err
	}

	if err := c.recorder.Record(ctx, &event); err != nil {
		ctxlog.Warn(ctx, c.logger, "Error recording product event", zap.Error(err))
		return err
	}

	return nil
}
