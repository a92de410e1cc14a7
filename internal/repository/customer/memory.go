package customer

import (
	"context"
	"sync"

	"cart-pricing/internal/domain"
)

type memoryRepo struct {
	mu        sync.RWMutex
	order     []string
	customers map[string]domain.Customer
}

// NewMemory returns an in-process customer store.
func NewMemory(customers ...domain.Customer) Repository {
	r := &memoryRepo{customers: make(map[string]domain.Customer, len(customers))}
	for _, c := range customers {
		r.put(c)
	}
	return r
}

// NewSeededMemory returns a store holding the demo customers.
func NewSeededMemory() Repository {
	return NewMemory(SeedCustomers()...)
}

// SeedCustomers returns one common and one VIP customer.
func SeedCustomers() []domain.Customer {
	return []domain.Customer{
		domain.NewCommonCustomer("customer-1", "Paulo Gomes"),
		domain.NewVIPCustomer("vip-1", "Larissa Costa"),
	}
}

func (r *memoryRepo) FindAll(context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.customers[id])
	}
	return out, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Save(_ context.Context, c domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(c)
	return c, nil
}

func (r *memoryRepo) put(c domain.Customer) {
	if _, ok := r.customers[c.ID()]; !ok {
		r.order = append(r.order, c.ID())
	}
	r.customers[c.ID()] = c
}
