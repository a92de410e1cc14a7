package domain

import "strings"

// CustomerType classifies customers for promotion eligibility.
type CustomerType string

const (
	CustomerCommon CustomerType = "common"
	CustomerVIP    CustomerType = "vip"
)

// ParseCustomerType converts a stored or wire value into a CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	switch CustomerType(strings.ToLower(strings.TrimSpace(value))) {
	case CustomerCommon:
		return CustomerCommon, nil
	case CustomerVIP:
		return CustomerVIP, nil
	default:
		return "", ErrInvalidCustomerType
	}
}

// Customer is supplied by the customer lookup and never modified by pricing.
type Customer struct {
	id   string
	kind CustomerType
	name string
}

// NewCustomer builds a customer of the given type.
func NewCustomer(id string, kind CustomerType, name string) (Customer, error) {
	if kind != CustomerCommon && kind != CustomerVIP {
		return Customer{}, ErrInvalidCustomerType
	}
	return Customer{id: id, kind: kind, name: name}, nil
}

// NewVIPCustomer builds a VIP customer.
func NewVIPCustomer(id, name string) Customer {
	return Customer{id: id, kind: CustomerVIP, name: name}
}

// NewCommonCustomer builds a regular customer.
func NewCommonCustomer(id, name string) Customer {
	return Customer{id: id, kind: CustomerCommon, name: name}
}

func (c Customer) ID() string {
	return c.id
}

func (c Customer) Type() CustomerType {
	return c.kind
}

func (c Customer) Name() string {
	return c.name
}

// IsVIP reports whether the customer is entitled to the VIP discount.
func (c Customer) IsVIP() bool {
	return c.kind == CustomerVIP
}
