package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farringdon-press/boxoffice/internal/domain"
	"github.com/farringdon-press/boxoffice/internal/notifier"
)

func TestRenderTicketConfirmation(t *testing.T) {
	n, err := New(nil, "orders@farringdonpress.example")
	require.NoError(t, err)

	body, err := n.render(&domain.Order{
		Reference:   "FP-20260831T120000-ABCDEF",
		ProductType: domain.ProductTicket,
		Customer:    domain.Customer{Name: "Alice Example", Email: "alice@example.com"},
		Quantity:    2,
		AmountTotal: 3000,
		Currency:    "gbp",
		Status:      domain.StatusCompleted,
	}, notifier.KindTicketConfirmation)
	require.NoError(t, err)

	assert.Contains(t, body, "Alice Example")
	assert.Contains(t, body, "FP-20260831T120000-ABCDEF")
	assert.Contains(t, body, "2")
	assert.Contains(t, body, "£30.00")
}

func TestRenderBookConfirmation(t *testing.T) {
	n, err := New(nil, "orders@farringdonpress.example")
	require.NoError(t, err)

	body, err := n.render(&domain.Order{
		Reference:   "FP-20260831T120000-ABCDEF",
		ProductType: domain.ProductBook,
		Customer:    domain.Customer{Name: "Bob Example", Email: "bob@example.com"},
		Shipping: &domain.Shipping{
			Address:  "1 Farringdon Rd",
			City:     "London",
			Postcode: "EC1M 3HE",
		},
		Quantity:    1,
		AmountTotal: 2200,
		Currency:    "gbp",
		Status:      domain.StatusCompleted,
	}, notifier.KindBookConfirmation)
	require.NoError(t, err)

	assert.Contains(t, body, "Bob Example")
	assert.Contains(t, body, "1 Farringdon Rd")
	assert.Contains(t, body, "EC1M 3HE")
	assert.Contains(t, body, "£22.00")
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "Your tickets are confirmed", subjectFor(notifier.KindTicketConfirmation))
	assert.Equal(t, "Your order is confirmed", subjectFor(notifier.KindBookConfirmation))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "£25.00", formatMoney(2500, "gbp"))
	assert.Equal(t, "$19.99", formatMoney(1999, "usd"))
	assert.Equal(t, "€5.05", formatMoney(505, "eur"))
	assert.Equal(t, "chf 12.00", formatMoney(1200, "chf"))
}
