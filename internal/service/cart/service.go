package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cart-pricing/internal/domain"
	"cart-pricing/internal/lock"
)

type cartRepo interface {
	FindByID(ctx context.Context, id string) (domain.Cart, error)
	FindByCustomerID(ctx context.Context, customerID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}

type productRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service runs the cart use cases. Every mutation is a load, modify, save
// sequence performed while holding the cart's lock.
type Service struct {
	repo        cartRepo
	productRepo productRepo
	locker      lock.Locker
	logger      zerolog.Logger
	newID       func() string
}

// New builds a Service. A nil locker falls back to an in-process keyed mutex.
func New(repo cartRepo, productRepo productRepo, locker lock.Locker, logger *zerolog.Logger) *Service {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("service", "cart").Logger()
	}
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		locker:      locker,
		logger:      l,
		newID:       uuid.NewString,
	}
}

type AddItemInput struct {
	CartID     string
	CustomerID string
	ProductID  string
	Quantity   int
}

type AddItemResult struct {
	Cart    domain.Cart
	Message string
}

// AddItem adds units of a catalog product, creating the cart for CustomerID
// when it does not exist yet. An empty CartID gets a generated id.
func (s *Service) AddItem(ctx context.Context, in AddItemInput) (AddItemResult, error) {
	if in.Quantity <= 0 {
		return AddItemResult{}, domain.ErrInvalidQuantity
	}
	product, err := s.productRepo.FindByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AddItemResult{}, domain.ErrProductNotFound
		}
		return AddItemResult{}, fmt.Errorf("find product %s: %w", in.ProductID, err)
	}
	cartID := in.CartID
	if cartID == "" {
		cartID = s.newID()
	}

	var saved domain.Cart
	err = s.mutate(ctx, cartID, func(current domain.Cart, found bool) (domain.Cart, error) {
		if !found {
			current = domain.NewCart(cartID, in.CustomerID)
		}
		return current.AddItem(product, in.Quantity)
	}, &saved)
	if err != nil {
		return AddItemResult{}, err
	}
	s.logger.Info().
		Str("cart_id", cartID).
		Str("product_id", product.ID()).
		Int("quantity", in.Quantity).
		Msg("item added")
	return AddItemResult{
		Cart:    saved,
		Message: fmt.Sprintf("Added %d %s(s) to cart", in.Quantity, product.Name()),
	}, nil
}

// RemoveItem drops the product's line from an existing cart.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (domain.Cart, error) {
	var saved domain.Cart
	err := s.mutate(ctx, cartID, func(current domain.Cart, found bool) (domain.Cart, error) {
		if !found {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		if !current.HasItem(productID) {
			return domain.Cart{}, domain.ErrProductNotInCart
		}
		return current.RemoveItem(productID), nil
	}, &saved)
	return saved, err
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (domain.Cart, error) {
	var saved domain.Cart
	err := s.mutate(ctx, cartID, func(current domain.Cart, found bool) (domain.Cart, error) {
		if !found {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		if !current.HasItem(productID) {
			return domain.Cart{}, domain.ErrProductNotInCart
		}
		return current.UpdateQuantity(productID, quantity), nil
	}, &saved)
	return saved, err
}

// Clear empties an existing cart, keeping its id and owner.
func (s *Service) Clear(ctx context.Context, cartID string) (domain.Cart, error) {
	var saved domain.Cart
	err := s.mutate(ctx, cartID, func(current domain.Cart, found bool) (domain.Cart, error) {
		if !found {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return current.Clear(), nil
	}, &saved)
	return saved, err
}

// Load returns the stored cart.
func (s *Service) Load(ctx context.Context, cartID string) (domain.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cart, err
}

// LoadForCustomer returns the cart owned by customerID.
func (s *Service) LoadForCustomer(ctx context.Context, customerID string) (domain.Cart, error) {
	cart, err := s.repo.FindByCustomerID(ctx, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cart, err
}

func (s *Service) mutate(
	ctx context.Context,
	cartID string,
	fn func(current domain.Cart, found bool) (domain.Cart, error),
	out *domain.Cart,
) error {
	return s.locker.WithLock(ctx, "cart:"+cartID, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, cartID)
		found := err == nil
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load cart %s: %w", cartID, err)
		}
		next, err := fn(current, found)
		if err != nil {
			return err
		}
		saved, err := s.repo.Save(ctx, next)
		if err != nil {
			return fmt.Errorf("save cart %s: %w", cartID, err)
		}
		*out = saved
		return nil
	})
}
