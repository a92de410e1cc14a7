package httpserver

import (
	"cart-pricing/internal/domain"
	"cart-pricing/internal/pricing"
)

type productJSON struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type customerJSON struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type cartItemJSON struct {
	Product    productJSON `json:"product"`
	Quantity   int         `json:"quantity"`
	TotalPrice float64     `json:"totalPrice"`
}

type cartJSON struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customerId"`
	Items      []cartItemJSON `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPrice float64        `json:"totalPrice"`
}

type pricingResultJSON struct {
	OriginalPrice     float64 `json:"originalPrice"`
	FinalPrice        float64 `json:"finalPrice"`
	Discount          float64 `json:"discount"`
	PromotionType     string  `json:"promotionType"`
	Description       string  `json:"description"`
	SavingsPercentage float64 `json:"savingsPercentage"`
}

type pricingJSON struct {
	BestOption     pricingResultJSON   `json:"bestOption"`
	AllOptions     []pricingResultJSON `json:"allOptions"`
	Recommendation string              `json:"recommendation"`
}

func toProductJSON(p *domain.Product) productJSON {
	return productJSON{ID: p.ID(), Name: p.Name(), Price: p.Price().InexactFloat64()}
}

func toCustomerJSON(c domain.Customer) customerJSON {
	return customerJSON{ID: c.ID(), Type: string(c.Type()), Name: c.Name()}
}

func toCartJSON(c domain.Cart) cartJSON {
	items := c.Items()
	out := cartJSON{
		ID:         c.ID(),
		CustomerID: c.CustomerID(),
		Items:      make([]cartItemJSON, 0, len(items)),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice().InexactFloat64(),
	}
	for _, item := range items {
		out.Items = append(out.Items, cartItemJSON{
			Product:    toProductJSON(item.Product()),
			Quantity:   item.Quantity(),
			TotalPrice: item.LineTotal().InexactFloat64(),
		})
	}
	return out
}

func toPricingResultJSON(r domain.PricingResult) pricingResultJSON {
	return pricingResultJSON{
		OriginalPrice:     r.OriginalPrice().InexactFloat64(),
		FinalPrice:        r.FinalPrice().InexactFloat64(),
		Discount:          r.Discount().InexactFloat64(),
		PromotionType:     string(r.PromotionType()),
		Description:       r.Description(),
		SavingsPercentage: r.SavingsPercentage().InexactFloat64(),
	}
}

func toPricingJSON(opts pricing.Options) pricingJSON {
	all := make([]pricingResultJSON, 0, len(opts.AllOptions))
	for _, r := range opts.AllOptions {
		all = append(all, toPricingResultJSON(r))
	}
	return pricingJSON{
		BestOption:     toPricingResultJSON(opts.BestOption),
		AllOptions:     all,
		Recommendation: opts.Recommendation,
	}
}
