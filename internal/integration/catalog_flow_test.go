//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/events"
	"github.com/gsousaaa/ecommerce-aws/internal/service"
)

func (s *IntegrationTestSuite) actor() service.Actor {
	return service.Actor{Email: "admin@store.com", RequestID: "it-req"}
}

func (s *IntegrationTestSuite) eventRecords(productCode string) []domain.ProductEventRecord {
	pk := fmt.Sprintf("#product_%s", productCode)

	docs, err := s.Store.Query(s.Ctx, events.TableProductEvents, pk)
	s.Require().NoError(err)

	records := make([]domain.ProductEventRecord, 0, len(docs))
	for _, doc := range docs {
		var record domain.ProductEventRecord
		s.Require().NoError(json.Unmarshal(doc, &record))
		records = append(records, record)
	}

	return records
}

func (s *IntegrationTestSuite) TestCreateProductPersistsAndRecordsEvent() {
	created, err := s.Catalog.Create(s.Ctx, &domain.Product{
		Model:       "XM5",
		Code:        "SONY-XM5",
		Price:       15000,
		ProductName: "Noise cancelling headphones",
	}, s.actor())
	s.Require().NoError(err)
	s.Require().NotEmpty(created.ID)

	stored, err := s.Catalog.Get(s.Ctx, created.ID)
	s.Require().NoError(err)
	s.Require().Equal(created, stored)

	s.Require().Eventually(func() bool {
		return len(s.eventRecords("SONY-XM5")) == 1
	}, 30*time.Second, 500*time.Millisecond, "audit record never appeared")

	record := s.eventRecords("SONY-XM5")[0]
	s.Require().Equal(domain.ProductCreated, record.EventType)
	s.Require().Equal("admin@store.com", record.Email)
	s.Require().Equal("it-req", record.RequestID)
	s.Require().Equal(created.ID, record.Info.ProductID)
	s.Require().Equal(int64(15000), record.Info.Price)

	ttl := time.Unix(record.TTL, 0)
	s.Require().WithinDuration(time.Now().Add(5*time.Minute), ttl, time.Minute)
}

func (s *IntegrationTestSuite) TestUpdateAndDeleteRecordSeparateEvents() {
	created, err := s.Catalog.Create(s.Ctx, &domain.Product{
		Model:       "XM5",
		Code:        "SONY-XM5",
		Price:       15000,
		ProductName: "Noise cancelling headphones",
	}, s.actor())
	s.Require().NoError(err)

	created.Price = 12000
	_, err = s.Catalog.Update(s.Ctx, created.ID, created, s.actor())
	s.Require().NoError(err)

	_, err = s.Catalog.Delete(s.Ctx, created.ID, s.actor())
	s.Require().NoError(err)

	_, err = s.Catalog.Get(s.Ctx, created.ID)
	s.Require().Error(err)

	s.Require().Eventually(func() bool {
		return len(s.eventRecords("SONY-XM5")) == 3
	}, 30*time.Second, 500*time.Millisecond, "expected three audit records")

	types := map[domain.ProductEventType]bool{}
	for _, record := range s.eventRecords("SONY-XM5") {
		types[record.EventType] = true
	}
	s.Require().True(types[domain.ProductCreated])
	s.Require().True(types[domain.ProductUpdated])
	s.Require().True(types[domain.ProductDeleted])
}
