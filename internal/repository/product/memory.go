package product

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"cart-pricing/internal/domain"
)

type memoryRepo struct {
	mu       sync.RWMutex
	products []*domain.Product
}

// NewMemory returns an in-process catalog holding the given products in order.
func NewMemory(products ...*domain.Product) Repository {
	return &memoryRepo{products: append([]*domain.Product(nil), products...)}
}

// NewSeededMemory returns the demo catalog.
func NewSeededMemory() Repository {
	return NewMemory(SeedProducts()...)
}

// SeedProducts returns the demo catalog in display order.
func SeedProducts() []*domain.Product {
	return []*domain.Product{
		mustProduct("tshirt", "T-shirt", "35.99"),
		mustProduct("jeans", "Jeans", "65.50"),
		mustProduct("dress", "Dress", "80.75"),
	}
}

func mustProduct(id, name, price string) *domain.Product {
	p, err := domain.NewProduct(id, name, decimal.RequireFromString(price))
	if err != nil {
		panic(err)
	}
	return p
}

func (r *memoryRepo) FindAll(context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.Product(nil), r.products...), nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// FindByCategory matches the category against product names, case-insensitively.
func (r *memoryRepo) FindByCategory(_ context.Context, category string) ([]*domain.Product, error) {
	needle := strings.ToLower(category)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) Upsert(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.products {
		if existing.ID() == p.ID() {
			r.products[i] = p
			return nil
		}
	}
	r.products = append(r.products, p)
	return nil
}
