package cart

import (
	"context"
	"slices"
	"sync"

	"cart-pricing/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	order []string
	carts map[string]domain.Cart
}

// NewMemory returns a process-local cart store.
func NewMemory() Repository {
	return &memoryRepo{carts: make(map[string]domain.Cart)}
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[id]
	if !ok {
		return domain.Cart{}, domain.ErrNotFound
	}
	return c, nil
}

// FindByCustomerID returns the earliest stored cart owned by customerID.
func (r *memoryRepo) FindByCustomerID(_ context.Context, customerID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if c := r.carts[id]; c.CustomerID() == customerID {
			return c, nil
		}
	}
	return domain.Cart{}, domain.ErrNotFound
}

func (r *memoryRepo) Save(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[cart.ID()]; !ok {
		r.order = append(r.order, cart.ID())
	}
	r.carts[cart.ID()] = cart
	return cart, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[id]; !ok {
		return nil
	}
	delete(r.carts, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}
