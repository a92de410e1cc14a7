package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"cart-pricing/internal/domain"
	customerrepo "cart-pricing/internal/repository/customer"
	productrepo "cart-pricing/internal/repository/product"
)

type productWriter interface {
	Upsert(ctx context.Context, p *domain.Product) error
}

type customerWriter interface {
	Save(ctx context.Context, c domain.Customer) (domain.Customer, error)
}

// Apply inserts the demo catalog and customers into Postgres. It is idempotent
// via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zerolog.Logger) error {
	return Run(ctx, productrepo.NewPostgres(pool, logger), customerrepo.NewPostgres(pool, logger))
}

// Run writes the demo data through the given stores.
func Run(ctx context.Context, products productWriter, customers customerWriter) error {
	for _, p := range productrepo.SeedProducts() {
		if err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID(), err)
		}
	}
	for _, c := range customerrepo.SeedCustomers() {
		if _, err := customers.Save(ctx, c); err != nil {
			return fmt.Errorf("save customer %s: %w", c.ID(), err)
		}
	}
	return nil
}
