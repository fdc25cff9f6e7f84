package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/cache"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/models"
)

type customerSource interface {
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
}

// CachedCustomerRepository puts a Redis cache-aside in front of the customer
// table. Only found customers are cached, so a newly created customer is
// visible on the next lookup.
type CachedCustomerRepository struct {
	repo  customerSource
	cache *cache.RedisCache
}

func NewCachedCustomerRepository(repo customerSource, cache *cache.RedisCache) *CachedCustomerRepository {
	return &CachedCustomerRepository{
		repo:  repo,
		cache: cache,
	}
}

func customerKey(id int64) string {
	return fmt.Sprintf("customer:%d", id)
}

func (r *CachedCustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	cacheKey := customerKey(id)
	logger := log.Ctx(ctx)

	var customer models.Customer
	err := r.cache.Get(ctx, cacheKey, &customer)
	if err == nil {
		logger.Debug().Int64("customer_id", id).Msg("Customer cache hit")
		return &customer, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn().Err(err).Msg("Customer cache error, falling back to database")
	}

	c, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	if err := r.cache.Set(ctx, cacheKey, c); err != nil {
		logger.Warn().Err(err).Int64("customer_id", id).Msg("Failed to cache customer")
	}

	return c, nil
}

// Invalidate drops a cached customer, e.g. after it changed upstream.
func (r *CachedCustomerRepository) Invalidate(ctx context.Context, id int64) error {
	return r.cache.Delete(ctx, customerKey(id))
}
