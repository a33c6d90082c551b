package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/gsousaaa/ecommerce-aws/pkg/kvstore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const TableProducts = "products"

type ProductRepository interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

type productRepo struct {
	store  kvstore.Store
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProductRepository(store kvstore.Store, logger *zap.Logger) ProductRepository {
	return &productRepo{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("contract/product_repo"),
	}
}

func (r *productRepo) GetAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetAll")
	defer span.End()

	docs, err := r.store.Scan(ctx, TableProducts)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Error scanning products", zap.Error(err))

		return nil, fmt.Errorf("error scanning products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var p domain.Product
		if err := json.Unmarshal(doc, &p); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error unmarshaling product: %w", err)
		}
		products = append(products, p)
	}

	span.SetAttributes(
		attribute.Int("result_count", len(products)),
	)

	return products, nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("id", id),
	)

	doc, err := r.store.Get(ctx, TableProducts, kvstore.Key{PK: id})
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error getting product by id",
			zap.String("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error unmarshaling product: %w", err)
	}

	return &p, nil
}

// GetByIDs returns only the subset of products that exist; missing ids are
// silently omitted. Callers compare counts to detect missing products.
func (r *productRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByIDs")
	defer span.End()

	span.SetAttributes(
		attribute.Int("ids_count", len(ids)),
	)

	keys := make([]kvstore.Key, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, kvstore.Key{PK: id})
	}

	docs, err := r.store.BatchGet(ctx, TableProducts, keys)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error batch getting products",
			zap.Int("ids_count", len(ids)),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error batch getting products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var p domain.Product
		if err := json.Unmarshal(doc, &p); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error unmarshaling product: %w", err)
		}
		products = append(products, p)
	}

	span.SetAttributes(
		attribute.Int("result_count", len(products)),
	)

	return products, nil
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("code", product.Code),
	)

	// The id is always freshly generated; any caller-supplied value is
	// discarded so uniqueness never depends on input.
	product.ID = uuid.NewString()

	doc, err := json.Marshal(product)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error marshaling product: %w", err)
	}

	if err := r.store.Put(ctx, TableProducts, kvstore.Key{PK: product.ID}, doc); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error creating product",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating product: %w", err)
	}

	return product, nil
}

func (r *productRepo) Update(ctx context.Context, id string, product *domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("id", id),
	)

	product.ID = id

	doc, err := json.Marshal(product)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error marshaling product: %w", err)
	}

	// Existence-guarded replace; the store rejects the write atomically
	// when the id is gone, so a concurrent delete cannot race us.
	stored, err := r.store.Update(ctx, TableProducts, kvstore.Key{PK: id}, doc)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error updating product",
			zap.String("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error updating product: %w", err)
	}

	var updated domain.Product
	if err := json.Unmarshal(stored, &updated); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error unmarshaling product: %w", err)
	}

	return &updated, nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("id", id),
	)

	old, err := r.store.Delete(ctx, TableProducts, kvstore.Key{PK: id})
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error deleting product",
			zap.String("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error deleting product: %w", err)
	}

	var deleted domain.Product
	if err := json.Unmarshal(old, &deleted); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error unmarshaling product: %w", err)
	}

	return &deleted, nil
}
