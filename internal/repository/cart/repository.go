package cart

import (
	"context"

	"cart-pricing/internal/domain"
)

// Repository stores cart snapshots. Lookups of unknown carts return
// domain.ErrNotFound; deleting an unknown cart is not an error.
type Repository interface {
	FindByID(ctx context.Context, id string) (domain.Cart, error)
	FindByCustomerID(ctx context.Context, customerID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	Delete(ctx context.Context, id string) error
}
