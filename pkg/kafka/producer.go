package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// Producer is the asynchronous invocation transport: InvokeAsync hands a
// payload to the broker and returns without waiting for delivery. No
// delivery guarantee is surfaced to the caller.
type Producer interface {
	InvokeAsync(ctx context.Context, topic string, message interface{}) error
	Close() error
}

type asyncProducer struct {
	producer sarama.AsyncProducer
	logger   *zap.Logger
}

func NewAsyncProducer(brokers []string, logger *zap.Logger) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 0
	config.Producer.Return.Successes = false
	config.Producer.Return.Errors = true

	p, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("error creating producer: %v", err)
	}

	ap := &asyncProducer{producer: p, logger: logger}

	// Delivery failures are logged and dropped, never reported back.
	go func() {
		for perr := range p.Errors() {
			logger.Warn(
				"Async message delivery failed",
				zap.String("topic", perr.Msg.Topic),
				zap.Error(perr.Err),
			)
		}
	}()

	return ap, nil
}

func (p *asyncProducer) InvokeAsync(ctx context.Context, topic string, message interface{}) error {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		return err
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	var headers []sarama.RecordHeader
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Value:   sarama.StringEncoder(jsonMsg),
		Headers: headers,
	}

	select {
	case p.producer.Input() <- msg:
	case <-ctx.Done():
		return ctx.Err()
	}

	ctxlog.Debug(
		ctx,
		p.logger,
		"Message dispatched",
		zap.String("topic", topic),
	)

	return nil
}

func (p *asyncProducer) Close() error {
	return p.producer.Close()
}
