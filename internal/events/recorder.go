package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/gsousaaa/ecommerce-aws/pkg/kvstore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const TableProductEvents = "product_events"

// Audit records live this long; the store sweep purges them afterwards.
const recordRetention = 5 * time.Minute

// Recorder persists audit records for product mutations. It runs in the
// consumer's invocation context, decoupled from the request that emitted
// the event.
type Recorder struct {
	store  kvstore.Store
	tracer trace.Tracer
	logger *zap.Logger
}

func NewRecorder(store kvstore.Store, logger *zap.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("events/recorder"),
	}
}

func (r *Recorder) Record(ctx context.Context, event *domain.ProductEvent) error {
	ctx, span := r.tracer.Start(ctx, "Recorder.Record")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_type", string(event.EventType)),
		attribute.String("product_id", event.ProductID),
	)

	now := time.Now()
	expiresAt := now.Add(recordRetention)

	record := domain.ProductEventRecord{
		PK:        fmt.Sprintf("#product_%s", event.ProductCode),
		SK:        fmt.Sprintf("%s#%d", event.EventType, now.UnixMilli()),
		Email:     event.Email,
		CreatedAt: now.UnixMilli(),
		RequestID: event.RequestID,
		EventType: event.EventType,
		TTL:       expiresAt.Unix(),
		Info: domain.ProductEventInfo{
			ProductID: event.ProductID,
			Price:     event.ProductPrice,
		},
	}

	doc, err := json.Marshal(record)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("error marshaling event record: %w", err)
	}

	// Overwrite semantics on key collision: two events for the same
	// product, type and millisecond are indistinguishable anyway.
	key := kvstore.Key{PK: record.PK, SK: record.SK}
	if err := r.store.PutWithExpiry(ctx, TableProductEvents, key, doc, expiresAt); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error writing event record",
			zap.String("pk", record.PK),
			zap.String("sk", record.SK),
			zap.Error(err),
		)

		return fmt.Errorf("error writing event record: %w", err)
	}

	ctxlog.Info(
		ctx,
		r.logger,
		"Product event recorded",
		zap.String("event_type", string(event.EventType)),
		zap.String("product_id", event.ProductID),
		zap.String("request_id", event.RequestID),
	)

	return nil
}
