//go:build integration

package integration

import (
	"time"

	"github.com/gsousaaa/ecommerce-aws/pkg/kvstore"
)

func (s *IntegrationTestSuite) TestStoreConditionalUpdate() {
	key := kvstore.Key{PK: "p1"}

	_, err := s.Store.Update(s.Ctx, "products", key, []byte(`{"v":1}`))
	s.Require().ErrorIs(err, kvstore.ErrKeyNotFound)

	_, err = s.Store.Get(s.Ctx, "products", key)
	s.Require().ErrorIs(err, kvstore.ErrKeyNotFound)

	s.Require().NoError(s.Store.Put(s.Ctx, "products", key, []byte(`{"v":1}`)))

	stored, err := s.Store.Update(s.Ctx, "products", key, []byte(`{"v":2}`))
	s.Require().NoError(err)
	s.Require().JSONEq(`{"v":2}`, string(stored))
}

func (s *IntegrationTestSuite) TestStoreDeleteReturnsOldDocument() {
	key := kvstore.Key{PK: "p1"}
	s.Require().NoError(s.Store.Put(s.Ctx, "products", key, []byte(`{"v":1}`)))

	old, err := s.Store.Delete(s.Ctx, "products", key)
	s.Require().NoError(err)
	s.Require().JSONEq(`{"v":1}`, string(old))

	_, err = s.Store.Delete(s.Ctx, "products", key)
	s.Require().ErrorIs(err, kvstore.ErrKeyNotFound)
}

func (s *IntegrationTestSuite) TestExpiredRecordsSweptFromDatabase() {
	key := kvstore.Key{PK: "#product_IT", SK: "CREATED#1"}
	expired := time.Now().Add(-time.Minute)
	s.Require().NoError(s.Store.PutWithExpiry(s.Ctx, "product_events", key, []byte(`{}`), expired))

	// Expiry is passive: the record is still readable until a sweep runs.
	_, err := s.Store.Get(s.Ctx, "product_events", key)
	s.Require().NoError(err)

	tag, err := s.DbPool.Exec(
		s.Ctx,
		"DELETE FROM product_events WHERE expires_at IS NOT NULL AND expires_at < NOW()",
	)
	s.Require().NoError(err)
	s.Require().EqualValues(1, tag.RowsAffected())

	_, err = s.Store.Get(s.Ctx, "product_events", key)
	s.Require().ErrorIs(err, kvstore.ErrKeyNotFound)
}
