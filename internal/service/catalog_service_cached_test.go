package service

import (
	"context"
	"testing"
	"time"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/repository"
	"github.com/gsousaaa/ecommerce-aws/pkg/kvstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// A client aimed at a closed port makes every cache operation fail fast,
// which is exactly the degraded mode the decorator must shrug off.
func newUnreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            "127.0.0.1:1",
		DialTimeout:     100 * time.Millisecond,
		MaxRetries:      -1,
		PoolTimeout:     100 * time.Millisecond,
		ConnMaxIdleTime: time.Second,
	})
}

func TestCachedCatalogService_ServesThroughWhenCacheUnavailable(t *testing.T) {
	ctx := context.Background()

	repo := repository.NewProductRepository(kvstore.NewMemoryStore(), zap.NewNop())
	pub := &fakePublisher{}
	svc := NewCachedCatalogService(NewCatalogService(repo, pub, zap.NewNop()), newUnreachableRedis(), time.Minute)

	created, err := svc.Create(ctx, &domain.Product{Code: "SONY-XM5", Price: 15000, Model: "XM5", ProductName: "headphones"}, testActor())
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, fetched)

	created.Price = 12000
	updated, err := svc.Update(ctx, created.ID, created, testActor())
	require.NoError(t, err)
	require.Equal(t, int64(12000), updated.Price)

	deleted, err := svc.Delete(ctx, created.ID, testActor())
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrProductNotFound)
}
