// Package gateway defines the provider-neutral contract between the order
// lifecycle and the hosted payment checkout provider.
package gateway

import "errors"

// ErrSignature marks an inbound notification whose signature did not verify.
// Nothing from such a payload may be parsed or acted upon.
var ErrSignature = errors.New("invalid event signature")

// Metadata keys attached to a checkout at creation time. Metadata is the sole
// channel correlating an asynchronous event back to an order, and is treated
// as untrusted input on the way back in.
const (
	MetaOrderReference = "order_reference"
	MetaProductType    = "product_type"
	MetaCustomerName   = "customer_name"
	MetaShipAddress    = "ship_address"
	MetaShipCity       = "ship_city"
	MetaShipPostcode   = "ship_postcode"
)

type CheckoutRequest struct {
	ProductName   string
	UnitAmount    int64 // minor currency units, priced server-side
	Currency      string
	Quantity      int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Checkout is a provider-side offer to pay a specific amount.
type Checkout struct {
	SessionID   string
	URL         string
	AmountTotal int64
}

type EventKind string

const (
	EventCompleted EventKind = "completed"
	EventExpired   EventKind = "expired"
	EventOther     EventKind = "other"
)

// Event is a verified, decoded asynchronous payment notification.
type Event struct {
	ID              string
	Kind            EventKind
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	Metadata        map[string]string
}
