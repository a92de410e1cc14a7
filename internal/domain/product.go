package domain

import "github.com/shopspring/decimal"

// Product is an immutable catalog entry. Cart items hold a pointer to the
// catalog's Product rather than a copy.
type Product struct {
	id    string
	name  string
	price decimal.Decimal
}

// NewProduct validates the price and returns a catalog product.
func NewProduct(id, name string, price decimal.Decimal) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	return &Product{id: id, name: name, price: price}, nil
}

func (p *Product) ID() string {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

// Price is the unit price of the product.
func (p *Product) Price() decimal.Decimal {
	return p.price
}
