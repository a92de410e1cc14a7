package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cart-pricing/internal/domain"
)

// VIPDiscountPercentage is the flat discount VIP customers get on the cart total.
const VIPDiscountPercentage = 15

// VIPDiscount takes a flat percentage off the whole cart for VIP customers.
type VIPDiscount struct{}

func (VIPDiscount) Name() string {
	return string(domain.PromotionVIPDiscount)
}

func (VIPDiscount) CanApply(cart domain.Cart, customer domain.Customer) bool {
	return customer.IsVIP() && cart.TotalItems() > 0
}

func (s VIPDiscount) Calculate(cart domain.Cart, customer domain.Customer) (domain.PricingResult, error) {
	if !s.CanApply(cart, customer) {
		return domain.PricingResult{}, &NotApplicableError{Strategy: s.Name()}
	}
	total := cart.TotalPrice()
	discount := total.Mul(decimal.NewFromInt(VIPDiscountPercentage)).Div(decimal.NewFromInt(100))
	return domain.NewPricingResult(
		total,
		total.Sub(discount),
		discount,
		domain.PromotionVIPDiscount,
		fmt.Sprintf("VIP discount: %d%% off total purchase", VIPDiscountPercentage),
	)
}

func (VIPDiscount) Priority() int {
	return 2
}
