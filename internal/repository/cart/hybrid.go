package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"cart-pricing/internal/domain"
)

type hybridRepo struct {
	memory     Repository
	persistent Repository
	logger     zerolog.Logger

	mu sync.Mutex
	// dirty holds ids whose latest write reached memory but not the persistent
	// store. Reads of these ids are served from memory until a resync succeeds.
	dirty map[string]struct{}
}

// NewHybrid reads through the persistent store, caching hits in memory, and
// writes to memory before the persistent store. Persistent failures are logged
// and the memory copy is served; a cart whose persistent write failed is read
// from memory until it has been written through again.
func NewHybrid(memory, persistent Repository, logger *zerolog.Logger) Repository {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("repo", "cart_hybrid").Logger()
	}
	return &hybridRepo{
		memory:     memory,
		persistent: persistent,
		logger:     l,
		dirty:      make(map[string]struct{}),
	}
}

func (r *hybridRepo) FindByID(ctx context.Context, id string) (domain.Cart, error) {
	if r.isDirty(id) {
		return r.resync(ctx, id)
	}
	cart, err := r.persistent.FindByID(ctx, id)
	switch {
	case err == nil:
		return r.warm(ctx, cart)
	case !errors.Is(err, domain.ErrNotFound):
		r.logger.Warn().Err(err).Str("cart_id", id).Msg("persistent read failed, using memory")
	}
	return r.memory.FindByID(ctx, id)
}

func (r *hybridRepo) FindByCustomerID(ctx context.Context, customerID string) (domain.Cart, error) {
	cart, err := r.persistent.FindByCustomerID(ctx, customerID)
	switch {
	case err == nil:
		if r.isDirty(cart.ID()) {
			return r.resync(ctx, cart.ID())
		}
		return r.warm(ctx, cart)
	case !errors.Is(err, domain.ErrNotFound):
		r.logger.Warn().Err(err).Str("customer_id", customerID).Msg("persistent read failed, using memory")
	}
	return r.memory.FindByCustomerID(ctx, customerID)
}

func (r *hybridRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	saved, err := r.memory.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, err
	}
	r.writeThrough(ctx, saved)
	return saved, nil
}

func (r *hybridRepo) Delete(ctx context.Context, id string) error {
	if err := r.memory.Delete(ctx, id); err != nil {
		return err
	}
	r.setDirty(id, false)
	if err := r.persistent.Delete(ctx, id); err != nil {
		r.logger.Warn().Err(err).Str("cart_id", id).Msg("persistent delete failed")
	}
	return nil
}

func (r *hybridRepo) warm(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if _, err := r.memory.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// resync serves the memory copy of a dirty cart and retries its persistent write.
func (r *hybridRepo) resync(ctx context.Context, id string) (domain.Cart, error) {
	cart, err := r.memory.FindByID(ctx, id)
	if err != nil {
		return domain.Cart{}, err
	}
	r.writeThrough(ctx, cart)
	return cart, nil
}

func (r *hybridRepo) writeThrough(ctx context.Context, cart domain.Cart) {
	if _, err := r.persistent.Save(ctx, cart); err != nil {
		r.setDirty(cart.ID(), true)
		r.logger.Warn().Err(err).Str("cart_id", cart.ID()).Msg("persistent write failed")
		return
	}
	r.setDirty(cart.ID(), false)
}

func (r *hybridRepo) isDirty(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.dirty[id]
	return ok
}

func (r *hybridRepo) setDirty(id string, dirty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dirty {
		r.dirty[id] = struct{}{}
		return
	}
	delete(r.dirty, id)
}
