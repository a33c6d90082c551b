//go:build integration

package integration

import (
	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/service"
)

func (s *IntegrationTestSuite) createCatalogProduct(code string, price int64) *domain.Product {
	created, err := s.Catalog.Create(s.Ctx, &domain.Product{
		Model:       "M1",
		Code:        code,
		Price:       price,
		ProductName: "integration product",
	}, s.actor())
	s.Require().NoError(err)

	return created
}

func (s *IntegrationTestSuite) TestPlaceOrderAgainstPostgres() {
	a := s.createCatalogProduct("IT-A", 100)
	b := s.createCatalogProduct("IT-B", 250)

	order, err := s.Orders.PlaceOrder(s.Ctx, &domain.PlaceOrderRequest{
		Email:        "a@b.com",
		ProductIDs:   []string{a.ID, b.ID},
		PaymentType:  domain.PaymentCash,
		CarrierType:  domain.CarrierCorreios,
		ShippingType: domain.ShippingEconomic,
	})
	s.Require().NoError(err)
	s.Require().Equal(int64(350), order.Billing.TotalPrice)

	stored, err := s.Orders.Get(s.Ctx, "a@b.com", order.ID)
	s.Require().NoError(err)
	s.Require().Equal(order, stored)

	byCustomer, err := s.Orders.ListByCustomer(s.Ctx, "a@b.com")
	s.Require().NoError(err)
	s.Require().Len(byCustomer, 1)
}

func (s *IntegrationTestSuite) TestPlaceOrderMissingProductWritesNothing() {
	a := s.createCatalogProduct("IT-A", 100)

	_, err := s.Orders.PlaceOrder(s.Ctx, &domain.PlaceOrderRequest{
		Email:        "a@b.com",
		ProductIDs:   []string{a.ID, "ghost"},
		PaymentType:  domain.PaymentCash,
		CarrierType:  domain.CarrierCorreios,
		ShippingType: domain.ShippingEconomic,
	})
	s.Require().ErrorIs(err, service.ErrSomeProductsNotFound)

	orders, err := s.Orders.ListAll(s.Ctx)
	s.Require().NoError(err)
	s.Require().Empty(orders)
}

func (s *IntegrationTestSuite) TestDeleteOrder() {
	a := s.createCatalogProduct("IT-A", 100)

	order, err := s.Orders.PlaceOrder(s.Ctx, &domain.PlaceOrderRequest{
		Email:        "a@b.com",
		ProductIDs:   []string{a.ID},
		PaymentType:  domain.PaymentDebitCard,
		CarrierType:  domain.CarrierFedex,
		ShippingType: domain.ShippingUrgent,
	})
	s.Require().NoError(err)

	deleted, err := s.Orders.Delete(s.Ctx, "a@b.com", order.ID)
	s.Require().NoError(err)
	s.Require().Equal(order.ID, deleted.ID)

	_, err = s.Orders.Get(s.Ctx, "a@b.com", order.ID)
	s.Require().Error(err)
}
