package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"cart-pricing/internal/domain"
	"cart-pricing/internal/pricing"
)

type cartRepo interface {
	FindByID(ctx context.Context, id string) (domain.Cart, error)
}

type customerRepo interface {
	FindByID(ctx context.Context, id string) (domain.Customer, error)
}

// Service prices stored carts for stored customers.
type Service struct {
	carts     cartRepo
	customers customerRepo
	engine    *pricing.Engine
	logger    zerolog.Logger
}

func New(carts cartRepo, customers customerRepo, engine *pricing.Engine, logger *zerolog.Logger) *Service {
	if engine == nil {
		engine = pricing.NewEngine()
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("service", "pricing").Logger()
	}
	return &Service{carts: carts, customers: customers, engine: engine, logger: l}
}

// Calculate evaluates every pricing option for the cart. The cart is looked up
// before the customer.
func (s *Service) Calculate(ctx context.Context, cartID, customerID string) (pricing.Options, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return pricing.Options{}, domain.ErrCartNotFound
		}
		return pricing.Options{}, fmt.Errorf("load cart %s: %w", cartID, err)
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return pricing.Options{}, domain.ErrCustomerNotFound
		}
		return pricing.Options{}, fmt.Errorf("load customer %s: %w", customerID, err)
	}

	opts, err := s.engine.CalculateAllOptions(cart, customer)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("pricing failed")
		return pricing.Options{}, err
	}
	s.logger.Debug().
		Str("cart_id", cartID).
		Str("customer_id", customerID).
		Str("promotion", string(opts.BestOption.PromotionType())).
		Str("final_price", opts.BestOption.FinalPrice().StringFixed(2)).
		Msg("cart priced")
	return opts, nil
}
