// Package stripe implements the payment gateway contract on top of Stripe
// hosted Checkout and its signed webhooks.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/farringdon-press/boxoffice/internal/gateway"
)

type Client struct {
	api           *client.API
	webhookSecret string
}

func New(secretKey, webhookSecret string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &Client{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// CreateCheckout opens a payment-mode Checkout Session carrying the order
// metadata. The price is whatever the caller computed server-side; nothing
// client-supplied reaches this layer.
func (c *Client) CreateCheckout(
	ctx context.Context,
	req gateway.CheckoutRequest,
) (*gateway.Checkout, error) {
	const op = "gateway.stripe.CreateCheckout"

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
		CustomerEmail: stripe.String(req.CustomerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(req.Quantity),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
			},
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if sess.URL == "" {
		return nil, fmt.Errorf("%s: session %s has no checkout url", op, sess.ID)
	}

	return &gateway.Checkout{
		SessionID:   sess.ID,
		URL:         sess.URL,
		AmountTotal: sess.AmountTotal,
	}, nil
}

// VerifyEvent authenticates the raw payload against the webhook signing
// secret before anything is decoded. Unknown event types come back as
// EventOther with no session details attached.
func (c *Client) VerifyEvent(payload []byte, signature string) (*gateway.Event, error) {
	const op = "gateway.stripe.VerifyEvent"

	event, err := webhook.ConstructEventWithOptions(
		payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, gateway.ErrSignature, err)
	}

	out := &gateway.Event{ID: event.ID, Kind: gateway.EventOther}

	switch string(event.Type) {
	case "checkout.session.completed":
		out.Kind = gateway.EventCompleted
	case "checkout.session.expired":
		out.Kind = gateway.EventExpired
	default:
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%s: decode session: %w", op, err)
	}

	out.SessionID = sess.ID
	out.AmountTotal = sess.AmountTotal
	out.Metadata = sess.Metadata
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}

	return out, nil
}
