package domain

import "github.com/shopspring/decimal"

// Cart is an immutable aggregate. Every mutating method returns a new Cart and
// leaves the receiver untouched, so a Cart value can be shared freely between
// goroutines. Items keep insertion order and hold at most one line per product.
type Cart struct {
	id         string
	customerID string
	items      []CartItem
}

// NewCart returns an empty cart for the given owner.
func NewCart(id, customerID string) Cart {
	return Cart{id: id, customerID: customerID}
}

// RestoreCart rebuilds a cart from persisted lines, merging duplicate products
// the same way AddItem does.
func RestoreCart(id, customerID string, items []CartItem) (Cart, error) {
	cart := NewCart(id, customerID)
	for _, item := range items {
		next, err := cart.AddItem(item.Product(), item.Quantity())
		if err != nil {
			return Cart{}, err
		}
		cart = next
	}
	return cart, nil
}

func (c Cart) ID() string {
	return c.id
}

func (c Cart) CustomerID() string {
	return c.customerID
}

// Items returns a copy of the cart lines in insertion order.
func (c Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up the line for productID.
func (c Cart) Item(productID string) (CartItem, bool) {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.items[idx], true
	}
	return CartItem{}, false
}

func (c Cart) HasItem(productID string) bool {
	return c.indexOf(productID) >= 0
}

// AddItem adds quantity units of product, incrementing the existing line when
// the product is already in the cart.
func (c Cart) AddItem(product *Product, quantity int) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, ErrInvalidQuantity
	}
	if idx := c.indexOf(product.ID()); idx >= 0 {
		updated, err := c.items[idx].IncreaseQuantity(quantity)
		if err != nil {
			return Cart{}, err
		}
		items := c.Items()
		items[idx] = updated
		return c.with(items), nil
	}
	item, err := NewCartItem(product, quantity)
	if err != nil {
		return Cart{}, err
	}
	items := make([]CartItem, 0, len(c.items)+1)
	items = append(items, c.items...)
	items = append(items, item)
	return c.with(items), nil
}

// RemoveItem drops the line for productID. Removing an absent product yields an
// equivalent cart.
func (c Cart) RemoveItem(productID string) Cart {
	items := make([]CartItem, 0, len(c.items))
	for _, item := range c.items {
		if item.Product().ID() != productID {
			items = append(items, item)
		}
	}
	return c.with(items)
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line; an unknown product leaves the cart unchanged.
func (c Cart) UpdateQuantity(productID string, quantity int) Cart {
	idx := c.indexOf(productID)
	if idx < 0 {
		return c
	}
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}
	items := c.Items()
	current := items[idx]
	switch {
	case quantity > current.Quantity():
		grown, err := current.IncreaseQuantity(quantity - current.Quantity())
		if err != nil {
			return c
		}
		items[idx] = grown
	case quantity < current.Quantity():
		shrunk, ok := current.DecreaseQuantity(current.Quantity() - quantity)
		if !ok {
			return c.RemoveItem(productID)
		}
		items[idx] = shrunk
	}
	return c.with(items)
}

// Clear returns an empty cart with the same identity.
func (c Cart) Clear() Cart {
	return NewCart(c.id, c.customerID)
}

// TotalItems is the sum of all line quantities.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity()
	}
	return total
}

// TotalPrice is the sum of all line totals.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c Cart) with(items []CartItem) Cart {
	return Cart{id: c.id, customerID: c.customerID, items: items}
}

func (c Cart) indexOf(productID string) int {
	for i, item := range c.items {
		if item.Product().ID() == productID {
			return i
		}
	}
	return -1
}
