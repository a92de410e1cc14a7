package pricing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cart-pricing/internal/domain"
)

var (
	vip    = domain.NewVIPCustomer("vip-1", "Larissa Costa")
	common = domain.NewCommonCustomer("customer-1", "Paulo Gomes")
)

// cartOf builds a cart with one distinct product per price, quantity 1 each.
func cartOf(t *testing.T, prices ...string) domain.Cart {
	t.Helper()
	cart := domain.NewCart("cart", "owner")
	for i, price := range prices {
		p, err := domain.NewProduct(fmt.Sprintf("p%d", i), fmt.Sprintf("Product %d", i), decimal.RequireFromString(price))
		require.NoError(t, err)
		cart, err = cart.AddItem(p, 1)
		require.NoError(t, err)
	}
	return cart
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestThreeForTwoSingleGroup(t *testing.T) {
	cart := cartOf(t, "10", "20", "30")
	for _, customer := range []domain.Customer{common, vip} {
		res, err := ThreeForTwo{}.Calculate(cart, customer)
		require.NoError(t, err)
		requireMoney(t, "10", res.Discount())
		requireMoney(t, "50", res.FinalPrice())
		assert.Equal(t, domain.PromotionThreeForTwo, res.PromotionType())
		assert.Equal(t, "Get 3 for 2: 1 group(s) of 3 items, cheapest item free in each group", res.Description())
	}
}

func TestThreeForTwoSortsBeforeGrouping(t *testing.T) {
	cart := cartOf(t, "5", "15", "25", "10", "20", "30")
	res, err := ThreeForTwo{}.Calculate(cart, common)
	require.NoError(t, err)
	requireMoney(t, "105", res.OriginalPrice())
	requireMoney(t, "15", res.Discount())
	requireMoney(t, "90", res.FinalPrice())
}

func TestThreeForTwoExpandsQuantities(t *testing.T) {
	a, _ := domain.NewProduct("a", "A", decimal.NewFromInt(10))
	b, _ := domain.NewProduct("b", "B", decimal.NewFromInt(4))
	cart, err := domain.NewCart("c", "u").AddItem(a, 2)
	require.NoError(t, err)
	cart, err = cart.AddItem(b, 3)
	require.NoError(t, err)

	// units sorted: 4 4 4 | 10 10 -> one group, leftovers pay full price
	res, err := ThreeForTwo{}.Calculate(cart, common)
	require.NoError(t, err)
	requireMoney(t, "4", res.Discount())
	requireMoney(t, "28", res.FinalPrice())
}

func TestThreeForTwoNotApplicable(t *testing.T) {
	cart := cartOf(t, "10", "20")
	assert.False(t, ThreeForTwo{}.CanApply(cart, vip))
	assert.False(t, ThreeForTwo{}.CanApply(domain.NewCart("c", "u"), vip))

	_, err := ThreeForTwo{}.Calculate(cart, vip)
	require.ErrorIs(t, err, ErrStrategyNotApplicable)
	var nae *NotApplicableError
	require.True(t, errors.As(err, &nae))
	assert.Equal(t, "three_for_two", nae.Strategy)
}

func TestVIPDiscount(t *testing.T) {
	cart := cartOf(t, "100.00")
	res, err := VIPDiscount{}.Calculate(cart, vip)
	require.NoError(t, err)
	requireMoney(t, "15", res.Discount())
	requireMoney(t, "85", res.FinalPrice())
	assert.Equal(t, "VIP discount: 15% off total purchase", res.Description())

	_, err = VIPDiscount{}.Calculate(cart, common)
	require.ErrorIs(t, err, ErrStrategyNotApplicable)
	assert.False(t, VIPDiscount{}.CanApply(domain.NewCart("c", "vip-1"), vip))
}

func TestStrategyPriorities(t *testing.T) {
	assert.Equal(t, 1, ThreeForTwo{}.Priority())
	assert.Equal(t, 2, VIPDiscount{}.Priority())
	assert.Equal(t, []string{"three_for_two", "vip_discount"}, NewEngine().Strategies())
}

func TestEngineEmptyCart(t *testing.T) {
	engine := NewEngine()
	for _, customer := range []domain.Customer{common, vip} {
		best, err := engine.CalculateBestPrice(domain.NewCart("c", customer.ID()), customer)
		require.NoError(t, err)
		assert.Equal(t, domain.PromotionNone, best.PromotionType())
		assert.True(t, best.FinalPrice().IsZero())

		opts, err := engine.CalculateAllOptions(domain.NewCart("c", customer.ID()), customer)
		require.NoError(t, err)
		assert.Equal(t, "Cart is empty", opts.Recommendation)
		assert.Len(t, opts.AllOptions, 1)
	}
}

func TestEngineNoApplicableStrategy(t *testing.T) {
	opts, err := NewEngine().CalculateAllOptions(cartOf(t, "100.00"), common)
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionNone, opts.BestOption.PromotionType())
	requireMoney(t, "100", opts.BestOption.FinalPrice())
	assert.Equal(t, "No promotions available", opts.Recommendation)
	require.Len(t, opts.AllOptions, 1)
}

func TestEngineVIPSingleItem(t *testing.T) {
	opts, err := NewEngine().CalculateAllOptions(cartOf(t, "100.00"), vip)
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionVIPDiscount, opts.BestOption.PromotionType())
	requireMoney(t, "85", opts.BestOption.FinalPrice())
	require.Len(t, opts.AllOptions, 2)
	assert.Equal(t, domain.PromotionNone, opts.AllOptions[1].PromotionType())
	assert.Equal(t, "Best deal: VIP discount: 15% off total purchase. You save $15.00 (15.0% off)", opts.Recommendation)
}

func TestEnginePicksCheapest(t *testing.T) {
	// 3-for-2 saves 10 of 60, VIP saves 9
	opts, err := NewEngine().CalculateAllOptions(cartOf(t, "10", "20", "30"), vip)
	require.NoError(t, err)
	require.Len(t, opts.AllOptions, 3)
	assert.Equal(t, domain.PromotionThreeForTwo, opts.AllOptions[0].PromotionType())
	assert.Equal(t, domain.PromotionVIPDiscount, opts.AllOptions[1].PromotionType())
	assert.Equal(t, domain.PromotionNone, opts.AllOptions[2].PromotionType())
	assert.Equal(t, domain.PromotionThreeForTwo, opts.BestOption.PromotionType())
	assert.Equal(t, "Best deal: Get 3 for 2: 1 group(s) of 3 items, cheapest item free in each group. You save $10.00 (16.7% off)", opts.Recommendation)

	// VIP saves 15% of 300 = 45, 3-for-2 saves only 1
	opts, err = NewEngine().CalculateAllOptions(cartOf(t, "1", "150", "149"), vip)
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionVIPDiscount, opts.BestOption.PromotionType())
	requireMoney(t, "255", opts.BestOption.FinalPrice())
}

func TestEngineTieFavoursListOrder(t *testing.T) {
	// cheapest unit 15 == 15% of 100
	cart := cartOf(t, "15", "40", "45")
	best, err := NewEngine().CalculateBestPrice(cart, vip)
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionThreeForTwo, best.PromotionType())
	requireMoney(t, "85", best.FinalPrice())

	reversed := NewEngine(WithStrategies(VIPDiscount{}, ThreeForTwo{}))
	best, err = reversed.CalculateBestPrice(cart, vip)
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionVIPDiscount, best.PromotionType())
}

func TestEngineZeroDiscountTieKeepsStrategy(t *testing.T) {
	// free items make the 3-for-2 discount zero, tying with the baseline
	opts, err := NewEngine().CalculateAllOptions(cartOf(t, "0", "0", "0"), common)
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionThreeForTwo, opts.BestOption.PromotionType())

	opts, err = NewEngine(WithStrategies()).CalculateAllOptions(cartOf(t, "5"), vip)
	require.NoError(t, err)
	assert.Equal(t, "No promotions available", opts.Recommendation)
}

func TestEngineBestNeverExceedsBaseline(t *testing.T) {
	carts := [][]string{
		{"35.99"},
		{"35.99", "65.50"},
		{"35.99", "65.50", "80.75"},
		{"35.99", "35.99", "35.99", "65.50", "80.75"},
		{"0.01", "0.02", "0.03", "0.04"},
	}
	for _, prices := range carts {
		cart := cartOf(t, prices...)
		for _, customer := range []domain.Customer{common, vip} {
			best, err := NewEngine().CalculateBestPrice(cart, customer)
			require.NoError(t, err)
			assert.True(t, best.FinalPrice().LessThanOrEqual(best.OriginalPrice()))
			assert.True(t, best.FinalPrice().LessThanOrEqual(cart.TotalPrice()))
		}
	}
}

func TestEngineIdempotent(t *testing.T) {
	cart := cartOf(t, "35.99", "65.50", "80.75", "35.99")
	engine := NewEngine()
	first, err := engine.CalculateAllOptions(cart, vip)
	require.NoError(t, err)
	second, err := engine.CalculateAllOptions(cart, vip)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngineObserver(t *testing.T) {
	var (
		seen       []domain.PromotionType
		candidates []int
	)
	engine := NewEngine(WithObserver(func(best domain.PricingResult, n int) {
		seen = append(seen, best.PromotionType())
		candidates = append(candidates, n)
	}))

	_, err := engine.CalculateBestPrice(cartOf(t, "100"), vip)
	require.NoError(t, err)
	_, err = engine.CalculateBestPrice(domain.NewCart("c", "u"), vip)
	require.NoError(t, err)

	assert.Equal(t, []domain.PromotionType{domain.PromotionVIPDiscount, domain.PromotionNone}, seen)
	assert.Equal(t, []int{2, 1}, candidates)
}

type brokenStrategy struct{}

func (brokenStrategy) Name() string                               { return "broken" }
func (brokenStrategy) CanApply(domain.Cart, domain.Customer) bool { return true }
func (brokenStrategy) Priority() int                              { return 0 }
func (brokenStrategy) Calculate(domain.Cart, domain.Customer) (domain.PricingResult, error) {
	return domain.PricingResult{}, &NotApplicableError{Strategy: "broken"}
}

func TestEngineSurfacesStrategyErrors(t *testing.T) {
	_, err := NewEngine(WithStrategies(brokenStrategy{})).CalculateBestPrice(cartOf(t, "1"), common)
	require.ErrorIs(t, err, ErrStrategyNotApplicable)
	assert.Contains(t, err.Error(), "broken")
}
