package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrNegativePrice is returned when a product is built with a price below zero.
	ErrNegativePrice = errors.New("product price cannot be negative")
	// ErrInvalidQuantity is returned when a cart item quantity is not greater than zero.
	ErrInvalidQuantity = errors.New("cart item quantity must be greater than 0")
	// ErrNegativePricing is returned when any monetary field of a pricing result is negative.
	ErrNegativePricing = errors.New("pricing values cannot be negative")
	// ErrFinalExceedsOriginal is returned when a pricing result would charge more than the original price.
	ErrFinalExceedsOriginal = errors.New("final price cannot exceed original price")
	// ErrInvalidCustomerType is returned for customer classifications other than common or vip.
	ErrInvalidCustomerType = errors.New("invalid customer type")

	// ErrCartNotFound indicates the referenced cart does not exist.
	ErrCartNotFound = fmt.Errorf("cart %w", ErrNotFound)
	// ErrProductNotFound indicates the referenced product is not in the catalog.
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	// ErrCustomerNotFound indicates the referenced customer does not exist.
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	// ErrProductNotInCart is returned when removing or updating a product the cart does not hold.
	ErrProductNotInCart = errors.New("product not found in cart")
)
