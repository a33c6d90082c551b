package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/redis/go-redis/v9"
)

type cachedCatalogService struct {
	next        CatalogService
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewCachedCatalogService(next CatalogService, redisClient *redis.Client, cacheTTL time.Duration) CatalogService {
	return &cachedCatalogService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (s *cachedCatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.next.List(ctx)
}

func (s *cachedCatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	key := cacheKey(id)

	val, err := s.redisClient.Get(ctx, key).Result()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(val), &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		s.redisClient.Set(ctx, key, data, s.cacheTTL)
	}

	return product, nil
}

func (s *cachedCatalogService) Create(ctx context.Context, product *domain.Product, actor Actor) (*domain.Product, error) {
	return s.next.Create(ctx, product, actor)
}

func (s *cachedCatalogService) Update(ctx context.Context, id string, product *domain.Product, actor Actor) (*domain.Product, error) {
	updated, err := s.next.Update(ctx, id, product, actor)
	if err != nil {
		return nil, err
	}

	s.redisClient.Del(ctx, cacheKey(id))
	return updated, nil
}

func (s *cachedCatalogService) Delete(ctx context.Context, id string, actor Actor) (*domain.Product, error) {
	deleted, err := s.next.Delete(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	s.redisClient.Del(ctx, cacheKey(id))
	return deleted, nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
