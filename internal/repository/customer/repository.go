package customer

import (
	"context"

	"cart-pricing/internal/domain"
)

// Repository persists and fetches customers.
type Repository interface {
	FindAll(ctx context.Context) ([]domain.Customer, error)
	FindByID(ctx context.Context, id string) (domain.Customer, error)
	Save(ctx context.Context, c domain.Customer) (domain.Customer, error)
}
