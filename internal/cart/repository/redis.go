package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
)

type RedisRepository struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

// NewRedisRepository stores carts that expire ttl after their last change.
func NewRedisRepository(c *cache.RedisClient, ttl time.Duration) *RedisRepository {
	return &RedisRepository{cache: c, ttl: ttl}
}

func (r *RedisRepository) Get(ctx context.Context, business model.Business, userID string) (*cart.Cart, error) {
	data, err := r.cache.Get(ctx, cart.SessionKey(business, userID))
	if err != nil {
		if cache.IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []cart.Line{}
	}
	return &c, nil
}

func (r *RedisRepository) Save(ctx context.Context, business model.Business, userID string, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.cache.Set(ctx, cart.SessionKey(business, userID), data, r.ttl)
}

func (r *RedisRepository) Delete(ctx context.Context, business model.Business, userID string) error {
	return r.cache.Delete(ctx, cart.SessionKey(business, userID))
}
