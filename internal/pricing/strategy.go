// Package pricing evaluates whole-cart promotions and picks the cheapest
// option for a customer. Everything here is a pure function of its inputs.
package pricing

import (
	"errors"
	"fmt"

	"cart-pricing/internal/domain"
)

// ErrStrategyNotApplicable is returned when Calculate is called on a strategy
// whose CanApply is false. It signals a caller bug, not a business outcome.
var ErrStrategyNotApplicable = errors.New("strategy not applicable")

// NotApplicableError identifies the strategy that was misused.
type NotApplicableError struct {
	Strategy string
}

func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("pricing: %s: %s", e.Strategy, ErrStrategyNotApplicable)
}

func (e *NotApplicableError) Unwrap() error {
	return ErrStrategyNotApplicable
}

// Strategy is a single promotion rule.
type Strategy interface {
	// Name identifies the strategy in errors and logs.
	Name() string
	// CanApply must be side-effect free and safe on an empty cart.
	CanApply(cart domain.Cart, customer domain.Customer) bool
	// Calculate requires CanApply to hold and returns *NotApplicableError otherwise.
	Calculate(cart domain.Cart, customer domain.Customer) (domain.PricingResult, error)
	// Priority is a presentation hint; higher means preferred. The engine
	// does not consult it when choosing the best option.
	Priority() int
}

// DefaultStrategies returns the promotion rules in evaluation order. The order
// decides ties: earlier strategies win over later ones.
func DefaultStrategies() []Strategy {
	return []Strategy{ThreeForTwo{}, VIPDiscount{}}
}
