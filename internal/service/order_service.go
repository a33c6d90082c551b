package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/repository"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req *domain.PlaceOrderRequest) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, email string) ([]domain.Order, error)
	Get(ctx context.Context, email, orderID string) (*domain.Order, error)
	Delete(ctx context.Context, email, orderID string) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
		tracer:      otel.Tracer("order_service"),
	}
}

// PlaceOrder validates that every requested product exists, snapshots the
// current prices into the order and persists it. The products list keeps
// the batch-fetch return order, not the caller's request order.
func (s *orderService) PlaceOrder(ctx context.Context, req *domain.PlaceOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", req.Email),
		attribute.Int("products_count", len(req.ProductIDs)),
	)

	products, err := s.productRepo.GetByIDs(ctx, req.ProductIDs)
	if err != nil {
		ctxlog.Error(
			ctx,
			s.logger,
			"Error fetching order products",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error fetching order products: %w", err)
	}

	if len(products) != len(req.ProductIDs) {
		ctxlog.Warn(
			ctx,
			s.logger,
			"Some product was not found",
			zap.Int("requested", len(req.ProductIDs)),
			zap.Int("found", len(products)),
		)

		return nil, ErrSomeProductsNotFound
	}

	var totalPrice int64
	orderProducts := make([]domain.OrderProduct, 0, len(products))
	for _, p := range products {
		totalPrice += p.Price
		orderProducts = append(orderProducts, domain.OrderProduct{Code: p.Code, Price: p.Price})
	}

	order := &domain.Order{
		Email:    req.Email,
		Products: orderProducts,
		Billing: domain.Billing{
			Payment:    req.PaymentType,
			TotalPrice: totalPrice,
		},
		Shipping: domain.Shipping{
			Type:    req.ShippingType,
			Carrier: req.CarrierType,
		},
	}

	created, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		ctxlog.Error(ctx, s.logger, "Error creating order", zap.Error(err))

		return nil, fmt.Errorf("error creating order: %w", err)
	}

	ctxlog.Info(
		ctx,
		s.logger,
		"Order placed",
		zap.String("email", created.Email),
		zap.String("order_id", created.ID),
		zap.Int64("total_price", created.Billing.TotalPrice),
	)

	return created, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("error listing orders", zap.Error(err))
		return nil, fmt.Errorf("error listing orders: %w", err)
	}

	return orders, nil
}

func (s *orderService) ListByCustomer(ctx context.Context, email string) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetByCustomer(ctx, email)
	if err != nil {
		s.logger.Error("error listing orders by customer", zap.Error(err))
		return nil, fmt.Errorf("error listing orders by customer: %w", err)
	}

	return orders, nil
}

func (s *orderService) Get(ctx context.Context, email, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetOne(ctx, email, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			s.logger.Warn("order not found",
				zap.String("email", email),
				zap.String("order_id", orderID),
			)
			return nil, err
		}

		s.logger.Error("error getting order", zap.Error(err))
		return nil, fmt.Errorf("error getting order: %w", err)
	}

	return order, nil
}

func (s *orderService) Delete(ctx context.Context, email, orderID string) (*domain.Order, error) {
	deleted, err := s.orderRepo.Delete(ctx, email, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			s.logger.Warn("order not found",
				zap.String("email", email),
				zap.String("order_id", orderID),
			)
			return nil, err
		}

		s.logger.Error("error deleting order", zap.Error(err))
		return nil, fmt.Errorf("error deleting order: %w", err)
	}

	return deleted, nil
}
