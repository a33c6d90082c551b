package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/gsousaaa/ecommerce-aws/pkg/kvstore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const TableOrders = "orders"

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByCustomer(ctx context.Context, email string) ([]domain.Order, error)
	GetOne(ctx context.Context, email, orderID string) (*domain.Order, error)
	Delete(ctx context.Context, email, orderID string) (*domain.Order, error)
}

type orderRepo struct {
	store  kvstore.Store
	tracer trace.Tracer
	logger *zap.Logger
}

func NewOrderRepository(store kvstore.Store, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("contract/order_repo"),
	}
}

// Create assigns a fresh order id and creation timestamp, discarding any
// caller-supplied values. Retried creates produce duplicate orders; there
// is no idempotency key.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", order.Email),
		attribute.Int("products_count", len(order.Products)),
	)

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UnixMilli()

	doc, err := json.Marshal(order)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error marshaling order: %w", err)
	}

	key := kvstore.Key{PK: order.Email, SK: order.ID}
	if err := r.store.Put(ctx, TableOrders, key, doc); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error creating order",
			zap.String("email", order.Email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating order: %w", err)
	}

	return order, nil
}

func (r *orderRepo) GetAll(ctx context.Context) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetAll")
	defer span.End()

	docs, err := r.store.Scan(ctx, TableOrders)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Error scanning orders", zap.Error(err))

		return nil, fmt.Errorf("error scanning orders: %w", err)
	}

	return unmarshalOrders(docs, span)
}

func (r *orderRepo) GetByCustomer(ctx context.Context, email string) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByCustomer")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
	)

	docs, err := r.store.Query(ctx, TableOrders, email)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error querying orders by customer",
			zap.String("email", email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error querying orders: %w", err)
	}

	return unmarshalOrders(docs, span)
}

func (r *orderRepo) GetOne(ctx context.Context, email, orderID string) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetOne")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
		attribute.String("order_id", orderID),
	)

	doc, err := r.store.Get(ctx, TableOrders, kvstore.Key{PK: email, SK: orderID})
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error getting order",
			zap.String("email", email),
			zap.String("order_id", orderID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting order: %w", err)
	}

	var o domain.Order
	if err := json.Unmarshal(doc, &o); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error unmarshaling order: %w", err)
	}

	return &o, nil
}

func (r *orderRepo) Delete(ctx context.Context, email, orderID string) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
		attribute.String("order_id", orderID),
	)

	old, err := r.store.Delete(ctx, TableOrders, kvstore.Key{PK: email, SK: orderID})
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error deleting order",
			zap.String("email", email),
			zap.String("order_id", orderID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error deleting order: %w", err)
	}

	var deleted domain.Order
	if err := json.Unmarshal(old, &deleted); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error unmarshaling order: %w", err)
	}

	return &deleted, nil
}

func unmarshalOrders(docs [][]byte, span trace.Span) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		var o domain.Order
		if err := json.Unmarshal(doc, &o); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error unmarshaling order: %w", err)
		}
		orders = append(orders, o)
	}

	span.SetAttributes(
		attribute.Int("result_count", len(orders)),
	)

	return orders, nil
}
