package pricing

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"cart-pricing/internal/domain"
)

// ThreeForTwoGroupSize is the number of units that earn one free unit.
const ThreeForTwoGroupSize = 3

// ThreeForTwo makes the cheapest unit of every group of three free. Units are
// grouped after sorting the whole cart by unit price, so each group holds
// neighbouring prices.
type ThreeForTwo struct{}

func (ThreeForTwo) Name() string {
	return string(domain.PromotionThreeForTwo)
}

func (ThreeForTwo) CanApply(cart domain.Cart, _ domain.Customer) bool {
	return cart.TotalItems() >= ThreeForTwoGroupSize
}

func (s ThreeForTwo) Calculate(cart domain.Cart, customer domain.Customer) (domain.PricingResult, error) {
	if !s.CanApply(cart, customer) {
		return domain.PricingResult{}, &NotApplicableError{Strategy: s.Name()}
	}

	units := expandUnits(cart)
	// stable: equal prices keep insertion order
	slices.SortStableFunc(units, func(a, b decimal.Decimal) int {
		return a.Cmp(b)
	})

	groups := len(units) / ThreeForTwoGroupSize
	discount := decimal.Zero
	for g := 0; g < groups; g++ {
		discount = discount.Add(units[g*ThreeForTwoGroupSize])
	}

	total := cart.TotalPrice()
	return domain.NewPricingResult(
		total,
		total.Sub(discount),
		discount,
		domain.PromotionThreeForTwo,
		fmt.Sprintf("Get 3 for 2: %d group(s) of 3 items, cheapest item free in each group", groups),
	)
}

func (ThreeForTwo) Priority() int {
	return 1
}

// expandUnits lists one unit price per item per quantity, in cart order.
func expandUnits(cart domain.Cart) []decimal.Decimal {
	units := make([]decimal.Decimal, 0, cart.TotalItems())
	for _, item := range cart.Items() {
		price := item.Product().Price()
		for i := 0; i < item.Quantity(); i++ {
			units = append(units, price)
		}
	}
	return units
}
