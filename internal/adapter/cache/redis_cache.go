package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ldtri/mealgo-api/internal/usecase"
)

const (
	statusKeyPrefix = "order:status:"
	readyOrdersKey  = "orders:ready"
	catalogKey      = "catalog:prices"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) SetStatus(ctx context.Context, orderID string, status string) error {
	return r.rdb.Set(ctx, statusKeyPrefix+orderID, status, r.ttl).Err()
}

func (r *RedisCache) GetStatus(ctx context.Context, orderID string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, statusKeyPrefix+orderID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetReadyOrders replaces the whole set; a partial merge could leave a
// claimed order visible on rider dashboards for a full poll interval.
func (r *RedisCache) SetReadyOrders(ctx context.Context, ids []string) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, readyOrdersKey, b, r.ttl).Err()
}

func (r *RedisCache) GetReadyOrders(ctx context.Context) ([]string, error) {
	val, err := r.rdb.Get(ctx, readyOrdersKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(val, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *RedisCache) SetCatalogPrices(ctx context.Context, prices []usecase.CatalogPrice) error {
	b, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, catalogKey, b, r.ttl).Err()
}

func (r *RedisCache) GetCatalogPrices(ctx context.Context) ([]usecase.CatalogPrice, bool, error) {
	val, err := r.rdb.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var prices []usecase.CatalogPrice
	if err := json.Unmarshal(val, &prices); err != nil {
		return nil, false, err
	}
	return prices, true, nil
}

var _ usecase.OrderCache = (*RedisCache)(nil)
