package product

import (
	"context"

	"cart-pricing/internal/domain"
)

// Repository looks up catalog products. Lookups of unknown ids return
// domain.ErrNotFound.
type Repository interface {
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	Upsert(ctx context.Context, p *domain.Product) error
}
