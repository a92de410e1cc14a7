package domain

import "github.com/shopspring/decimal"

// PromotionType identifies which rule produced a PricingResult.
type PromotionType string

const (
	PromotionNone        PromotionType = "none"
	PromotionThreeForTwo PromotionType = "three_for_two"
	PromotionVIPDiscount PromotionType = "vip_discount"
)

const noPromotionDescription = "No promotion applied"

var hundred = decimal.NewFromInt(100)

// PricingResult is the outcome of evaluating one pricing option for a cart.
type PricingResult struct {
	originalPrice decimal.Decimal
	finalPrice    decimal.Decimal
	discount      decimal.Decimal
	promotionType PromotionType
	description   string
}

// NewPricingResult validates and returns a pricing result. All amounts must be
// non-negative and the final price cannot exceed the original.
func NewPricingResult(originalPrice, finalPrice, discount decimal.Decimal, promotionType PromotionType, description string) (PricingResult, error) {
	if originalPrice.IsNegative() || finalPrice.IsNegative() || discount.IsNegative() {
		return PricingResult{}, ErrNegativePricing
	}
	if finalPrice.GreaterThan(originalPrice) {
		return PricingResult{}, ErrFinalExceedsOriginal
	}
	return PricingResult{
		originalPrice: originalPrice,
		finalPrice:    finalPrice,
		discount:      discount,
		promotionType: promotionType,
		description:   description,
	}, nil
}

// CreatePricingResult derives the discount as originalPrice - finalPrice.
func CreatePricingResult(originalPrice, finalPrice decimal.Decimal, promotionType PromotionType, description string) (PricingResult, error) {
	return NewPricingResult(originalPrice, finalPrice, originalPrice.Sub(finalPrice), promotionType, description)
}

// NoPromotion is the baseline option where the customer pays price in full.
// It panics if price is negative; cart totals never are.
func NoPromotion(price decimal.Decimal) PricingResult {
	res, err := NewPricingResult(price, price, decimal.Zero, PromotionNone, noPromotionDescription)
	if err != nil {
		panic(err)
	}
	return res
}

func (r PricingResult) OriginalPrice() decimal.Decimal {
	return r.originalPrice
}

func (r PricingResult) FinalPrice() decimal.Decimal {
	return r.finalPrice
}

func (r PricingResult) Discount() decimal.Decimal {
	return r.discount
}

func (r PricingResult) PromotionType() PromotionType {
	return r.promotionType
}

func (r PricingResult) Description() string {
	return r.description
}

// SavingsPercentage is discount / original * 100, or zero for a free cart.
func (r PricingResult) SavingsPercentage() decimal.Decimal {
	if r.originalPrice.IsZero() {
		return decimal.Zero
	}
	return r.discount.Mul(hundred).Div(r.originalPrice)
}
