package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/events"
	"github.com/gsousaaa/ecommerce-aws/internal/repository"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"go.uber.org/zap"
)

// Actor identifies the principal behind a catalog mutation; it ends up in
// the audit event, never in the product record.
type Actor struct {
	Email     string
	RequestID string
}

type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product, actor Actor) (*domain.Product, error)
	Update(ctx context.Context, id string, product *domain.Product, actor Actor) (*domain.Product, error)
	Delete(ctx context.Context, id string, actor Actor) (*domain.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	publisher   events.Publisher
	logger      *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *catalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("error listing products", zap.Error(err))
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.String("product_id", id))
			return nil, err
		}

		s.logger.Error("error getting product", zap.Error(err))
		return nil, fmt.Errorf("error getting product by id: %w", err)
	}

	return product, nil
}

func (s *catalogService) Create(ctx context.Context, product *domain.Product, actor Actor) (*domain.Product, error) {
	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		ctxlog.Error(ctx, s.logger, "Error creating product", zap.Error(err))
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	s.publish(ctx, domain.ProductCreated, created, actor)

	return created, nil
}

func (s *catalogService) Update(ctx context.Context, id string, product *domain.Product, actor Actor) (*domain.Product, error) {
	updated, err := s.productRepo.Update(ctx, id, product)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.String("product_id", id))
			return nil, err
		}

		ctxlog.Error(ctx, s.logger, "Error updating product", zap.Error(err))
		return nil, fmt.Errorf("error updating product: %w", err)
	}

	s.publish(ctx, domain.ProductUpdated, updated, actor)

	return updated, nil
}

func (s *catalogService) Delete(ctx context.Context, id string, actor Actor) (*domain.Product, error) {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.String("product_id", id))
			return nil, err
		}

		ctxlog.Error(ctx, s.logger, "Error deleting product", zap.Error(err))
		return nil, fmt.Errorf("error deleting product: %w", err)
	}

	s.publish(ctx, domain.ProductDeleted, deleted, actor)

	return deleted, nil
}

// publish emits the audit event for a mutation that already committed.
// A dispatch failure is logged and swallowed: the catalog never reports a
// successful mutation as failed because its notification was lost.
func (s *catalogService) publish(ctx context.Context, eventType domain.ProductEventType, product *domain.Product, actor Actor) {
	event := &domain.ProductEvent{
		RequestID:    actor.RequestID,
		EventType:    eventType,
		ProductID:    product.ID,
		ProductCode:  product.Code,
		ProductPrice: product.Price,
		Email:        actor.Email,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		ctxlog.Warn(
			ctx,
			s.logger,
			"Event publication failed, mutation unaffected",
			zap.String("event_type", string(eventType)),
			zap.String("product_id", product.ID),
			zap.Error(err),
		)
	}
}
