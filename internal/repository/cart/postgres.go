package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cart-pricing/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres returns a Repository backed by the carts and cart_items tables.
func NewPostgres(pool *pgxpool.Pool, logger *zerolog.Logger) Repository {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("repo", "cart_postgres").Logger()
	}
	return &postgresRepo{pool: pool, logger: l}
}

func (r *postgresRepo) FindByID(ctx context.Context, id string) (domain.Cart, error) {
	const q = `
SELECT id, customer_id
FROM carts
WHERE id = $1
`
	var cartID, customerID string
	if err := r.pool.QueryRow(ctx, q, id).Scan(&cartID, &customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("cart_id", id).Msg("get cart")
		return domain.Cart{}, err
	}
	s, err := r.loadItems(ctx, snapshot{ID: cartID, CustomerID: customerID})
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", id).Msg("get cart items")
		return domain.Cart{}, err
	}
	return s.restore()
}

func (r *postgresRepo) FindByCustomerID(ctx context.Context, customerID string) (domain.Cart, error) {
	const q = `
SELECT id
FROM carts
WHERE customer_id = $1
ORDER BY updated_at DESC
LIMIT 1
`
	var id string
	if err := r.pool.QueryRow(ctx, q, customerID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("find cart by customer")
		return domain.Cart{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *postgresRepo) loadItems(ctx context.Context, s snapshot) (snapshot, error) {
	const q = `
SELECT product_id, product_name, unit_price::text, quantity
FROM cart_items
WHERE cart_id = $1
ORDER BY position
`
	rows, err := r.pool.Query(ctx, q, s.ID)
	if err != nil {
		return snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it    snapshotItem
			price string
		)
		if err := rows.Scan(&it.ProductID, &it.ProductName, &price, &it.Quantity); err != nil {
			return snapshot{}, err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return snapshot{}, fmt.Errorf("parse unit price %q: %w", price, err)
		}
		s.Items = append(s.Items, it)
	}
	return s, rows.Err()
}

// Save replaces the stored cart and its lines in one transaction.
func (r *postgresRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	const upsertCart = `
INSERT INTO carts (id, customer_id)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET
    customer_id = EXCLUDED.customer_id,
    updated_at = now()
`
	const deleteItems = `DELETE FROM cart_items WHERE cart_id = $1`
	const insertItem = `
INSERT INTO cart_items (cart_id, position, product_id, product_name, unit_price, quantity)
VALUES ($1, $2, $3, $4, $5::numeric, $6)
`
	s := toSnapshot(cart)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertCart, s.ID, s.CustomerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteItems, s.ID); err != nil {
			return err
		}
		if len(s.Items) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for i, it := range s.Items {
			batch.Queue(insertItem, s.ID, i, it.ProductID, it.ProductName, it.UnitPrice.String(), it.Quantity)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID()).Msg("save cart")
		return domain.Cart{}, fmt.Errorf("save cart %s: %w", cart.ID(), err)
	}
	r.logger.Debug().Str("cart_id", cart.ID()).Int("lines", len(s.Items)).Msg("saved cart")
	return cart, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM carts WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id); err != nil {
		r.logger.Error().Err(err).Str("cart_id", id).Msg("delete cart")
		return fmt.Errorf("delete cart %s: %w", id, err)
	}
	return nil
}
