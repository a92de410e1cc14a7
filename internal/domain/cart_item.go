package domain

import "github.com/shopspring/decimal"

// CartItem is one line of a cart. The product is shared with the catalog.
type CartItem struct {
	product  *Product
	quantity int
}

// NewCartItem returns ErrInvalidQuantity unless quantity is positive.
func NewCartItem(product *Product, quantity int) (CartItem, error) {
	if quantity <= 0 {
		return CartItem{}, ErrInvalidQuantity
	}
	return CartItem{product: product, quantity: quantity}, nil
}

func (i CartItem) Product() *Product {
	return i.product
}

func (i CartItem) Quantity() int {
	return i.quantity
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.product.Price().Mul(decimal.NewFromInt(int64(i.quantity)))
}

// IncreaseQuantity returns a copy with amount more units.
func (i CartItem) IncreaseQuantity(amount int) (CartItem, error) {
	return NewCartItem(i.product, i.quantity+amount)
}

// DecreaseQuantity returns a copy with amount fewer units. ok is false when
// nothing would remain, in which case the item must be dropped from its cart.
func (i CartItem) DecreaseQuantity(amount int) (item CartItem, ok bool) {
	remaining := i.quantity - amount
	if remaining <= 0 {
		return CartItem{}, false
	}
	return CartItem{product: i.product, quantity: remaining}, true
}
