// Package notifier defines the confirmation-message contract used by the
// order lifecycle once a payment completes.
package notifier

import (
	"context"

	"github.com/farringdon-press/boxoffice/internal/domain"
)

type Kind string

const (
	KindTicketConfirmation Kind = "ticket_confirmation"
	KindBookConfirmation   Kind = "book_confirmation"
)

// KindFor maps a product type to its confirmation template.
func KindFor(p domain.ProductType) Kind {
	if p == domain.ProductBook {
		return KindBookConfirmation
	}
	return KindTicketConfirmation
}

// Notifier renders and dispatches one confirmation message for a completed
// order. A delivery failure never rolls back the order's state transition.
type Notifier interface {
	Notify(ctx context.Context, o *domain.Order, kind Kind) error
}
