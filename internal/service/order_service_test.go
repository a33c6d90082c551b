package service

import (
	"context"
	"testing"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/repository"
	"github.com/gsousaaa/ecommerce-aws/pkg/kvstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderFixture(t *testing.T) (OrderService, repository.ProductRepository, repository.OrderRepository) {
	t.Helper()

	store := kvstore.NewMemoryStore()
	logger := zap.NewNop()

	productRepo := repository.NewProductRepository(store, logger)
	orderRepo := repository.NewOrderRepository(store, logger)

	return NewOrderService(orderRepo, productRepo, logger), productRepo, orderRepo
}

func placeOrderRequest(email string, productIDs ...string) *domain.PlaceOrderRequest {
	return &domain.PlaceOrderRequest{
		Email:        email,
		ProductIDs:   productIDs,
		PaymentType:  domain.PaymentCash,
		CarrierType:  domain.CarrierCorreios,
		ShippingType: domain.ShippingEconomic,
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _ := newOrderFixture(t)

	a, err := productRepo.Create(ctx, &domain.Product{Code: "A", Price: 100, Model: "m", ProductName: "product a"})
	require.NoError(t, err)
	b, err := productRepo.Create(ctx, &domain.Product{Code: "B", Price: 250, Model: "m", ProductName: "product b"})
	require.NoError(t, err)

	order, err := svc.PlaceOrder(ctx, placeOrderRequest("a@b.com", a.ID, b.ID))
	require.NoError(t, err)

	require.Equal(t, "a@b.com", order.Email)
	require.NotEmpty(t, order.ID)
	require.NotZero(t, order.CreatedAt)
	require.Equal(t, int64(350), order.Billing.TotalPrice)
	require.Equal(t, domain.PaymentCash, order.Billing.Payment)
	require.Equal(t, domain.ShippingEconomic, order.Shipping.Type)
	require.Equal(t, domain.CarrierCorreios, order.Shipping.Carrier)

	require.ElementsMatch(t, []domain.OrderProduct{
		{Code: "A", Price: 100},
		{Code: "B", Price: 250},
	}, order.Products)
}

func TestPlaceOrder_MissingProductPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, orderRepo := newOrderFixture(t)

	a, err := productRepo.Create(ctx, &domain.Product{Code: "A", Price: 100, Model: "m", ProductName: "product a"})
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, placeOrderRequest("a@b.com", a.ID, "ghost"))
	require.ErrorIs(t, err, ErrSomeProductsNotFound)

	orders, err := orderRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestPlaceOrder_DuplicateProductIDRejected(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, orderRepo := newOrderFixture(t)

	a, err := productRepo.Create(ctx, &domain.Product{Code: "A", Price: 100, Model: "m", ProductName: "product a"})
	require.NoError(t, err)

	// Repeating an id must not double-charge: the batch fetch collapses
	// duplicates, so the count check fails the request.
	_, err = svc.PlaceOrder(ctx, placeOrderRequest("a@b.com", a.ID, a.ID))
	require.ErrorIs(t, err, ErrSomeProductsNotFound)

	orders, err := orderRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestPlaceOrder_PriceIsSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, orderRepo := newOrderFixture(t)

	a, err := productRepo.Create(ctx, &domain.Product{Code: "A", Price: 100, Model: "m", ProductName: "product a"})
	require.NoError(t, err)

	order, err := svc.PlaceOrder(ctx, placeOrderRequest("a@b.com", a.ID))
	require.NoError(t, err)
	require.Equal(t, int64(100), order.Billing.TotalPrice)

	// Catalog price change after the fact must not touch the stored order.
	a.Price = 999
	_, err = productRepo.Update(ctx, a.ID, a)
	require.NoError(t, err)

	stored, err := orderRepo.GetOne(ctx, "a@b.com", order.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), stored.Billing.TotalPrice)
	require.Equal(t, int64(100), stored.Products[0].Price)
}

func TestOrderService_DeleteExcludesOnlyDeleted(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _ := newOrderFixture(t)

	a, err := productRepo.Create(ctx, &domain.Product{Code: "A", Price: 100, Model: "m", ProductName: "product a"})
	require.NoError(t, err)

	first, err := svc.PlaceOrder(ctx, placeOrderRequest("a@b.com", a.ID))
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, placeOrderRequest("a@b.com", a.ID))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "a@b.com", first.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, deleted.ID)

	remaining, err := svc.ListByCustomer(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, second.ID, remaining[0].ID)

	_, err = svc.Get(ctx, "a@b.com", first.ID)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}
