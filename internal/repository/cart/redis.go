package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cart-pricing/internal/domain"
)

const (
	cartKeyPrefix     = "cart:"
	customerKeyPrefix = "cart:customer:"
)

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedis stores carts as JSON snapshots with a sliding TTL. A secondary key
// per customer points at the customer's most recently saved cart.
func NewRedis(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) Repository {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("repo", "cart_redis").Logger()
	}
	return &redisRepo{client: client, ttl: ttl, logger: l}
}

func (r *redisRepo) FindByID(ctx context.Context, id string) (domain.Cart, error) {
	raw, err := r.client.Get(ctx, cartKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("cart_id", id).Msg("get cart")
		return domain.Cart{}, err
	}
	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		r.logger.Warn().Err(err).Str("cart_id", id).Msg("decode cart snapshot")
		return domain.Cart{}, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return s.restore()
}

func (r *redisRepo) FindByCustomerID(ctx context.Context, customerID string) (domain.Cart, error) {
	id, err := r.client.Get(ctx, customerKeyPrefix+customerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, domain.ErrNotFound
		}
		return domain.Cart{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *redisRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	payload, err := json.Marshal(toSnapshot(cart))
	if err != nil {
		return domain.Cart{}, fmt.Errorf("encode cart %s: %w", cart.ID(), err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, cartKeyPrefix+cart.ID(), payload, r.ttl)
		pipe.Set(ctx, customerKeyPrefix+cart.CustomerID(), cart.ID(), r.ttl)
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID()).Msg("save cart")
		return domain.Cart{}, fmt.Errorf("save cart %s: %w", cart.ID(), err)
	}
	return cart, nil
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	existing, err := r.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	indexKey := customerKeyPrefix + existing.CustomerID()
	owner, err := r.client.Get(ctx, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := []string{cartKeyPrefix + id}
	if owner == id {
		keys = append(keys, indexKey)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error().Err(err).Str("cart_id", id).Msg("delete cart")
		return fmt.Errorf("delete cart %s: %w", id, err)
	}
	return nil
}
