// Package events carries product-mutation notifications: a sender half
// that hands events to the invocation transport without waiting for
// delivery, and a recorder half that persists short-lived audit records
// out-of-band.
package events

import (
	"context"
	"time"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/gsousaaa/ecommerce-aws/pkg/utils"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Transport is the fire-and-forget invocation boundary. Delivery is not
// guaranteed and no result is surfaced beyond "invocation accepted".
type Transport interface {
	InvokeAsync(ctx context.Context, target string, payload interface{}) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.ProductEvent) error
}

type publisher struct {
	transport Transport
	topic     string
	cb        *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

func NewPublisher(transport Transport, topic string, logger *zap.Logger) Publisher {
	settings := gobreaker.Settings{
		Name:        "ProductEvents",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &publisher{
		transport: transport,
		topic:     topic,
		cb:        gobreaker.NewCircuitBreaker(settings),
		logger:    logger,
	}
}

func (p *publisher) Publish(ctx context.Context, event *domain.ProductEvent) error {
	_, err := utils.ExecuteWithBreaker(p.cb, func() (struct{}, error) {
		return struct{}{}, p.transport.InvokeAsync(ctx, p.topic, event)
	})
	if err != nil {
		ctxlog.Warn(
			ctx,
			p.logger,
			"Event dispatch failed",
			zap.String("event_type", string(event.EventType)),
			zap.String("product_id", event.ProductID),
			zap.Error(err),
		)

		return err
	}

	ctxlog.Debug(
		ctx,
		p.logger,
		"Event dispatched",
		zap.String("event_type", string(event.EventType)),
		zap.String("product_id", event.ProductID),
	)

	return nil
}
