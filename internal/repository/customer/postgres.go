package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"cart-pricing/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zerolog.Logger) Repository {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("repo", "customer").Logger()
	}
	return &postgresRepo{pool: pool, logger: l}
}

func (r *postgresRepo) FindAll(ctx context.Context) ([]domain.Customer, error) {
	const q = `
SELECT id, type, name
FROM customers
ORDER BY seq
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Msg("list customers")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("list customers rows")
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	const q = `
SELECT id, type, name
FROM customers
WHERE id = $1
`
	c, err := scanCustomer(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("id", id).Msg("customer not found")
			return domain.Customer{}, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("get customer")
		return domain.Customer{}, err
	}
	return c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	const q = `
INSERT INTO customers (id, type, name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
    type = EXCLUDED.type,
    name = EXCLUDED.name
RETURNING id, type, name
`
	saved, err := scanCustomer(r.pool.QueryRow(ctx, q, c.ID(), string(c.Type()), c.Name()))
	if err != nil {
		r.logger.Error().Err(err).Str("id", c.ID()).Msg("save customer")
		return domain.Customer{}, fmt.Errorf("save customer %s: %w", c.ID(), err)
	}
	return saved, nil
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var id, kind, name string
	if err := row.Scan(&id, &kind, &name); err != nil {
		return domain.Customer{}, err
	}
	t, err := domain.ParseCustomerType(kind)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, err)
	}
	return domain.NewCustomer(id, t, name)
}
