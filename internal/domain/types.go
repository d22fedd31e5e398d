package domain

import (
	"time"
)

type ProductType string

const (
	ProductTicket ProductType = "ticket"
	ProductBook   ProductType = "book"
)

func (p ProductType) Valid() bool {
	return p == ProductTicket || p == ProductBook
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusFailed    OrderStatus = "failed"
)

// Terminal reports whether no further status transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Shipping struct {
	Address  string
	City     string
	Postcode string
}

// Order is the single source of truth for one purchase. It is keyed by
// Reference, created in StatusPending and mutated exactly once by the
// payment webhook when it reaches a terminal status.
type Order struct {
	Reference        string
	ProductType      ProductType
	Customer         Customer
	Shipping         *Shipping // present iff ProductType == ProductBook
	Quantity         int
	AmountTotal      int64 // minor currency units, as reported by the gateway
	Currency         string
	PaymentSessionID string
	PaymentIntentID  string // empty until payment completes
	Status           OrderStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderPatch carries a partial update; nil fields are left untouched.
type OrderPatch struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	ShipAddress     *string
	ShipCity        *string
	ShipPostcode    *string
	PaymentIntentID *string
	Status          *OrderStatus
}

// Empty reports whether the patch would change nothing.
func (p OrderPatch) Empty() bool {
	return p.CustomerName == nil &&
		p.CustomerEmail == nil &&
		p.CustomerPhone == nil &&
		p.ShipAddress == nil &&
		p.ShipCity == nil &&
		p.ShipPostcode == nil &&
		p.PaymentIntentID == nil &&
		p.Status == nil
}
