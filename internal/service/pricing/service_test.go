package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cart-pricing/internal/domain"
	"cart-pricing/internal/pricing"
	cartrepo "cart-pricing/internal/repository/cart"
	customerrepo "cart-pricing/internal/repository/customer"
	productrepo "cart-pricing/internal/repository/product"
)

func seededCart(t *testing.T, carts cartrepo.Repository, id string, productIDs ...string) {
	t.Helper()
	ctx := context.Background()
	catalog := productrepo.NewSeededMemory()
	cart := domain.NewCart(id, "owner")
	for _, pid := range productIDs {
		p, err := catalog.FindByID(ctx, pid)
		require.NoError(t, err)
		cart, err = cart.AddItem(p, 1)
		require.NoError(t, err)
	}
	_, err := carts.Save(ctx, cart)
	require.NoError(t, err)
}

func TestCalculate(t *testing.T) {
	carts := cartrepo.NewMemory()
	seededCart(t, carts, "cart-1", "tshirt", "jeans", "dress")
	svc := New(carts, customerrepo.NewSeededMemory(), nil, nil)

	// 35.99 + 65.50 + 80.75 = 182.24; 3-for-2 saves 35.99, VIP saves 27.336
	opts, err := svc.Calculate(context.Background(), "cart-1", "vip-1")
	require.NoError(t, err)
	require.Len(t, opts.AllOptions, 3)
	assert.Equal(t, domain.PromotionThreeForTwo, opts.BestOption.PromotionType())
	assert.Equal(t, "146.25", opts.BestOption.FinalPrice().StringFixed(2))

	opts, err = svc.Calculate(context.Background(), "cart-1", "customer-1")
	require.NoError(t, err)
	require.Len(t, opts.AllOptions, 2)
	assert.Equal(t, domain.PromotionThreeForTwo, opts.BestOption.PromotionType())
}

func TestCalculateVIPWinsOnSmallCart(t *testing.T) {
	carts := cartrepo.NewMemory()
	seededCart(t, carts, "cart-1", "dress")
	svc := New(carts, customerrepo.NewSeededMemory(), nil, nil)

	opts, err := svc.Calculate(context.Background(), "cart-1", "vip-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionVIPDiscount, opts.BestOption.PromotionType())
	assert.Equal(t, "68.64", opts.BestOption.FinalPrice().StringFixed(2))
}

func TestCalculateLookupOrder(t *testing.T) {
	carts := cartrepo.NewMemory()
	svc := New(carts, customerrepo.NewSeededMemory(), nil, nil)

	_, err := svc.Calculate(context.Background(), "missing", "nobody")
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	seededCart(t, carts, "cart-1", "tshirt")
	_, err = svc.Calculate(context.Background(), "cart-1", "nobody")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

type failingCustomers struct{}

func (failingCustomers) FindByID(context.Context, string) (domain.Customer, error) {
	return domain.Customer{}, errors.New("db down")
}

func TestCalculateWrapsStoreErrors(t *testing.T) {
	carts := cartrepo.NewMemory()
	seededCart(t, carts, "cart-1", "tshirt")
	svc := New(carts, failingCustomers{}, nil, nil)

	_, err := svc.Calculate(context.Background(), "cart-1", "vip-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "load customer vip-1")
}

func TestCalculateUsesEngineObserver(t *testing.T) {
	carts := cartrepo.NewMemory()
	seededCart(t, carts, "cart-1", "tshirt")
	var seen []domain.PromotionType
	engine := pricing.NewEngine(pricing.WithObserver(func(best domain.PricingResult, _ int) {
		seen = append(seen, best.PromotionType())
	}))
	svc := New(carts, customerrepo.NewSeededMemory(), engine, nil)

	_, err := svc.Calculate(context.Background(), "cart-1", "customer-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.PromotionType{domain.PromotionNone}, seen)
}
