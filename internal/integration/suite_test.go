//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/gsousaaa/ecommerce-aws/internal/events"
	"github.com/gsousaaa/ecommerce-aws/internal/repository"
	"github.com/gsousaaa/ecommerce-aws/internal/service"
	transportkafka "github.com/gsousaaa/ecommerce-aws/internal/transport/kafka"
	"github.com/gsousaaa/ecommerce-aws/pkg/kafka"
	"github.com/gsousaaa/ecommerce-aws/pkg/testsuite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	eventsTopic   = "product-events"
	eventsGroupID = "product-events-recorder-it"
)

type IntegrationTestSuite struct {
	testsuite.BaseSuite

	Catalog     service.CatalogService
	Orders      service.OrderService
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository

	producer       kafka.Producer
	consumerCancel context.CancelFunc
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.BaseSuite.SetupInfrastructure("../../migrations")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *IntegrationTestSuite) SetupTest() {
	s.BaseSuite.TruncateTable("products")
	s.BaseSuite.TruncateTable("orders")
	s.BaseSuite.TruncateTable("product_events")

	logger := zap.NewNop()

	s.ProductRepo = repository.NewProductRepository(s.Store, logger)
	s.OrderRepo = repository.NewOrderRepository(s.Store, logger)

	var err error
	s.producer, err = kafka.NewAsyncProducer(s.KafkaBrokers, logger)
	s.Require().NoError(err, "failed to create kafka producer")

	publisher := events.NewPublisher(s.producer, eventsTopic, logger)

	s.Catalog = service.NewCatalogService(s.ProductRepo, publisher, logger)
	s.Orders = service.NewOrderService(s.OrderRepo, s.ProductRepo, logger)

	recorder := events.NewRecorder(s.Store, logger)
	consumer := transportkafka.NewConsumer(recorder, eventsTopic, eventsGroupID, logger)

	consumerCtx, cancel := context.WithCancel(s.Ctx)
	s.consumerCancel = cancel

	go consumer.Start(consumerCtx, s.KafkaBrokers)
}

func (s *IntegrationTestSuite) TearDownTest() {
	if s.consumerCancel != nil {
		s.consumerCancel()
	}
	if s.producer != nil {
		s.Require().NoError(s.producer.Close())
	}
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
