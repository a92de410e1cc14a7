package catalog

import (
	"context"
	"errors"

	"cart-pricing/internal/domain"
	customerrepo "cart-pricing/internal/repository/customer"
	productrepo "cart-pricing/internal/repository/product"
)

// Service exposes the read side of products and customers.
type Service struct {
	products  productrepo.Repository
	customers customerrepo.Repository
}

func New(products productrepo.Repository, customers customerrepo.Repository) *Service {
	return &Service{products: products, customers: customers}
}

// Products lists the catalog. A non-empty category narrows it by name.
func (s *Service) Products(ctx context.Context, category string) ([]*domain.Product, error) {
	if category != "" {
		return s.products.FindByCategory(ctx, category)
	}
	return s.products.FindAll(ctx)
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProductNotFound
	}
	return p, err
}

func (s *Service) Customers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.FindAll(ctx)
}

func (s *Service) Customer(ctx context.Context, id string) (domain.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, err
}
