package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cart-pricing/internal/domain"
)

// snapshot is the serialised form of a cart. Lines carry the product name and
// unit price at the time of saving so a cart restores without the catalog.
type snapshot struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Items      []snapshotItem  `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type snapshotItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

func toSnapshot(c domain.Cart) snapshot {
	items := c.Items()
	s := snapshot{
		ID:         c.ID(),
		CustomerID: c.CustomerID(),
		Items:      make([]snapshotItem, 0, len(items)),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
	for _, item := range items {
		p := item.Product()
		s.Items = append(s.Items, snapshotItem{
			ProductID:   p.ID(),
			ProductName: p.Name(),
			UnitPrice:   p.Price(),
			Quantity:    item.Quantity(),
		})
	}
	return s
}

// restore validates every line through the domain constructors.
func (s snapshot) restore() (domain.Cart, error) {
	items := make([]domain.CartItem, 0, len(s.Items))
	for _, it := range s.Items {
		p, err := domain.NewProduct(it.ProductID, it.ProductName, it.UnitPrice)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("restore cart %s product %s: %w", s.ID, it.ProductID, err)
		}
		item, err := domain.NewCartItem(p, it.Quantity)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("restore cart %s product %s: %w", s.ID, it.ProductID, err)
		}
		items = append(items, item)
	}
	return domain.RestoreCart(s.ID, s.CustomerID, items)
}
