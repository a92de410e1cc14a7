package product

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

// NewPostgres returns a Repository backed by the products table.
func NewPostgres(pool *pgxpool.Pool, logger *zerolog.Logger) Repository {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("repo", "product").Logger()
	}
	return &postgresRepo{pool: pool, logger: l}
}

func (r *postgresRepo) FindAll(ctx context.Context) ([]*domain.Product, error) {
	const q = `
SELECT id, name, price::text
FROM products
ORDER BY seq
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Msg("list products")
		return nil, err
	}
	result, err := collect(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("list products rows")
		return nil, err
	}
	r.logger.Debug().Int("count", len(result)).Msg("list products")
	return result, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id, name, price::text
FROM products
WHERE id = $1
`
	var (
		pid, name, price string
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&pid, &name, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("id", id).Msg("product not found")
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("get product")
		return nil, err
	}
	return build(pid, name, price)
}

func (r *postgresRepo) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	const q = `
SELECT id, name, price::text
FROM products
WHERE strpos(lower(name), lower($1)) > 0
ORDER BY seq
`
	rows, err := r.pool.Query(ctx, q, category)
	if err != nil {
		r.logger.Error().Err(err).Str("category", category).Msg("find products by category")
		return nil, err
	}
	return collect(rows)
}

func (r *postgresRepo) Upsert(ctx context.Context, p *domain.Product) error {
	const q = `
INSERT INTO products (id, name, price)
VALUES ($1, $2, $3::numeric)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, p.ID(), p.Name(), p.Price().String()); err != nil {
		r.logger.Error().Err(err).Str("id", p.ID()).Msg("upsert product")
		return fmt.Errorf("upsert product %s: %w", p.ID(), err)
	}
	r.logger.Debug().Str("id", p.ID()).Msg("upserted product")
	return nil
}

func collect(rows pgx.Rows) ([]*domain.Product, error) {
	defer rows.Close()
	var result []*domain.Product
	for rows.Next() {
		var id, name, price string
		if err := rows.Scan(&id, &name, &price); err != nil {
			return nil, err
		}
		p, err := build(id, name, price)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func build(id, name, price string) (*domain.Product, error) {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %s: parse price %q: %w", id, price, err)
	}
	return domain.NewProduct(id, name, amount)
}
