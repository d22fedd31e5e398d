// Package orders owns the order lifecycle state machine: creation of a
// pending order against a hosted checkout, and its exactly-once transition to
// a terminal status driven by authenticated payment webhooks.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/farringdon-press/boxoffice/internal/domain"
	"github.com/farringdon-press/boxoffice/internal/gateway"
	"github.com/farringdon-press/boxoffice/internal/notifier"
	"github.com/farringdon-press/boxoffice/internal/repository"
	redisx "github.com/farringdon-press/boxoffice/internal/redis"
	redisrepo "github.com/farringdon-press/boxoffice/internal/repository/redis"
)

// OrderStore is the order persistence contract. Every call is a remote
// operation atomic only with respect to itself.
type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByReference(ctx context.Context, ref string) (*domain.Order, error)
	Update(ctx context.Context, ref string, patch domain.OrderPatch) (*domain.Order, error)
	UpdateIfStatus(ctx context.Context, ref string, expected domain.OrderStatus, patch domain.OrderPatch) (*domain.Order, error)
}

// Gateway is the payment provider contract.
type Gateway interface {
	CreateCheckout(ctx context.Context, req gateway.CheckoutRequest) (*gateway.Checkout, error)
	VerifyEvent(payload []byte, signature string) (*gateway.Event, error)
}

type Config struct {
	Currency          string
	TicketUnitAmount  int64
	BookUnitAmount    int64
	TicketName        string
	BookName          string
	SuccessURL        string
	CancelURL         string
	MaxTicketQuantity int
}

type Service struct {
	store    OrderStore
	gateway  Gateway
	notifier notifier.Notifier
	cache    *redisrepo.Cache
	pubsub   *redisx.OrdersPubSub
	dedup    *redisrepo.WebhookDedup
	limiter  *redisrepo.SlidingWindowLimiter
	logger   *slog.Logger
	cfg      Config
}

func New(
	store OrderStore,
	gw Gateway,
	n notifier.Notifier,
	cache *redisrepo.Cache,
	pubsub *redisx.OrdersPubSub,
	dedup *redisrepo.WebhookDedup,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "gbp"
	}

	if cfg.TicketName == "" {
		cfg.TicketName = "Event ticket"
	}

	if cfg.BookName == "" {
		cfg.BookName = "Book"
	}

	if cfg.MaxTicketQuantity <= 0 {
		cfg.MaxTicketQuantity = 10
	}

	return &Service{
		store:    store,
		gateway:  gw,
		notifier: n,
		cache:    cache,
		pubsub:   pubsub,
		dedup:    dedup,
		limiter:  limiter,
		logger:   logger,
		cfg:      cfg,
	}
}

type InitiateRequest struct {
	ProductType domain.ProductType
	Customer    domain.Customer
	Quantity    int
	Shipping    *domain.Shipping
}

type InitiateResult struct {
	CheckoutURL    string
	SessionID      string
	OrderReference string
}

// Initiate validates the request, obtains a checkout from the gateway at the
// server-side price, and persists a pending order. The checkout is created
// before the row so that a persistence failure leaves at worst an orphaned
// checkout in the provider, never a pending order nobody can pay.
//
// Returns:
//   - *ValidationError on bad input, before any external call.
//   - orders.ErrRateLimited when rlKey exceeded the initiation limit.
//   - orders.ErrOrderConflict if the generated reference already exists.
func (s *Service) Initiate(
	ctx context.Context,
	req InitiateRequest,
	rlKey string,
) (*InitiateResult, error) {
	const op = "service.orders.Initiate"

	if err := s.validate(req); err != nil {
		return nil, err
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w: retry in %s", op, ErrRateLimited, retry)
		}
	}

	ref := domain.NewOrderReference()

	unit := s.cfg.TicketUnitAmount
	name := s.cfg.TicketName
	qty := req.Quantity
	if req.ProductType == domain.ProductBook {
		unit = s.cfg.BookUnitAmount
		name = s.cfg.BookName
		qty = 1
	}

	meta := map[string]string{
		gateway.MetaOrderReference: ref,
		gateway.MetaProductType:    string(req.ProductType),
		gateway.MetaCustomerName:   req.Customer.Name,
	}
	if req.Shipping != nil {
		meta[gateway.MetaShipAddress] = req.Shipping.Address
		meta[gateway.MetaShipCity] = req.Shipping.City
		meta[gateway.MetaShipPostcode] = req.Shipping.Postcode
	}

	chk, err := s.gateway.CreateCheckout(ctx, gateway.CheckoutRequest{
		ProductName:   name,
		UnitAmount:    unit,
		Currency:      s.cfg.Currency,
		Quantity:      int64(qty),
		CustomerEmail: req.Customer.Email,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
		Metadata:      meta,
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if want := unit * int64(qty); chk.AmountTotal != want {
		s.logger.Error("gateway amount differs from computed price",
			"order_reference", ref,
			"computed", want,
			"gateway", chk.AmountTotal,
		)
	}

	o := &domain.Order{
		Reference:        ref,
		ProductType:      req.ProductType,
		Customer:         req.Customer,
		Shipping:         req.Shipping,
		Quantity:         qty,
		AmountTotal:      chk.AmountTotal,
		Currency:         s.cfg.Currency,
		PaymentSessionID: chk.SessionID,
		Status:           domain.StatusPending,
	}

	if err := s.store.Create(ctx, o); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrOrderConflict)
		}

		// The checkout survives in the provider with no matching row; the
		// reference in this log line is the handle for manual reconciliation.
		s.logger.Error("order row creation failed after checkout was created",
			"order_reference", ref,
			"session_id", chk.SessionID,
			"error", err,
		)
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &InitiateResult{
		CheckoutURL:    chk.URL,
		SessionID:      chk.SessionID,
		OrderReference: ref,
	}, nil
}

// HandlePaymentEvent applies one asynchronous payment notification.
//
// A nil return acknowledges the event to the provider and stops redelivery;
// that covers successful transitions, events for unknown or already-terminal
// orders, and event kinds this service does not act on. A non-nil return
// means the provider should redeliver: either gateway.ErrSignature (the
// payload is untrusted) or a store failure before the transition was durable.
func (s *Service) HandlePaymentEvent(
	ctx context.Context,
	payload []byte,
	signature string,
) error {
	const op = "service.orders.HandlePaymentEvent"

	ev, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if ev.Kind == gateway.EventOther {
		s.logger.Info("ignoring payment event", "event_id", ev.ID)
		return nil
	}

	ref := strings.TrimSpace(ev.Metadata[gateway.MetaOrderReference])
	if ref == "" {
		s.logger.Warn("payment event carries no order reference, acknowledging",
			"event_id", ev.ID,
			"kind", ev.Kind,
		)
		return nil
	}

	if s.dedup != nil {
		if done, err := s.dedup.Processed(ctx, ev.ID); err == nil && done {
			return nil
		}
	}

	o, err := s.store.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("payment event references unknown order, acknowledging",
				"event_id", ev.ID,
				"order_reference", ref,
			)
			s.markProcessed(ctx, ev.ID)
			return nil
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	if ev.SessionID != "" && ev.SessionID != o.PaymentSessionID {
		s.logger.Error("payment event session does not match order, acknowledging",
			"event_id", ev.ID,
			"order_reference", ref,
			"event_session", ev.SessionID,
			"order_session", o.PaymentSessionID,
		)
		return nil
	}

	// Idempotency: a terminal order never moves again and never re-notifies.
	if o.Status.Terminal() {
		s.markProcessed(ctx, ev.ID)
		return nil
	}

	switch ev.Kind {
	case gateway.EventCompleted:
		return s.complete(ctx, o, ev)
	case gateway.EventExpired:
		return s.expire(ctx, o, ev)
	}

	return nil
}

func (s *Service) complete(ctx context.Context, o *domain.Order, ev *gateway.Event) error {
	const op = "service.orders.complete"

	if ev.AmountTotal != o.AmountTotal {
		s.logger.Error("paid amount differs from recorded order total",
			"order_reference", o.Reference,
			"recorded", o.AmountTotal,
			"paid", ev.AmountTotal,
		)
	}

	status := domain.StatusCompleted
	patch := domain.OrderPatch{Status: &status}
	if ev.PaymentIntentID != "" {
		patch.PaymentIntentID = &ev.PaymentIntentID
	}

	updated, err := s.store.UpdateIfStatus(ctx, o.Reference, domain.StatusPending, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent delivery won the conditional write; its transition
			// stands and it owns the notification.
			s.markProcessed(ctx, ev.ID)
			return nil
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	s.afterTransition(ctx, updated, ev.ID)

	if err := s.notifier.Notify(ctx, updated, notifier.KindFor(updated.ProductType)); err != nil {
		// Payment really happened; losing the email beats desynchronising
		// state or re-charging. Reported for manual follow-up only.
		s.logger.Error("confirmation delivery failed",
			"order_reference", updated.Reference,
			"email", updated.Customer.Email,
			"error", err,
		)
	}

	return nil
}

func (s *Service) expire(ctx context.Context, o *domain.Order, ev *gateway.Event) error {
	const op = "service.orders.expire"

	status := domain.StatusFailed

	updated, err := s.store.UpdateIfStatus(ctx, o.Reference, domain.StatusPending, domain.OrderPatch{Status: &status})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.markProcessed(ctx, ev.ID)
			return nil
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	s.afterTransition(ctx, updated, ev.ID)

	return nil
}

// afterTransition runs the best-effort follow-ups of a durable status write:
// event dedup marking, cache invalidation, status broadcast.
func (s *Service) afterTransition(ctx context.Context, o *domain.Order, eventID string) {
	s.markProcessed(ctx, eventID)

	if s.cache != nil {
		_ = s.cache.InvalidateOrder(ctx, o.Reference)
	}

	if s.pubsub != nil {
		if err := s.pubsub.PublishOrderChanged(ctx, o.Reference, string(o.Status)); err != nil {
			s.logger.Warn("order change publish failed",
				"order_reference", o.Reference,
				"error", err,
			)
		}
	}
}

func (s *Service) markProcessed(ctx context.Context, eventID string) {
	if s.dedup == nil {
		return
	}
	if err := s.dedup.MarkProcessed(ctx, eventID); err != nil {
		s.logger.Warn("webhook dedup write failed", "event_id", eventID, "error", err)
	}
}

// UpdateContact applies a customer-initiated correction to contact or (for
// book orders) shipping details. Status, amounts and payment identifiers are
// not reachable through this path.
func (s *Service) UpdateContact(
	ctx context.Context,
	ref string,
	patch domain.OrderPatch,
) (*domain.Order, error) {
	const op = "service.orders.UpdateContact"

	if patch.Status != nil || patch.PaymentIntentID != nil {
		return nil, &ValidationError{Field: "patch", Reason: "field is not updatable"}
	}

	if patch.Empty() {
		return nil, &ValidationError{Field: "patch", Reason: "no fields to update"}
	}

	o, err := s.store.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	hasShipping := patch.ShipAddress != nil || patch.ShipCity != nil || patch.ShipPostcode != nil
	if hasShipping && o.ProductType != domain.ProductBook {
		return nil, &ValidationError{Field: "shipping", Reason: "only book orders have shipping details"}
	}

	updated, err := s.store.Update(ctx, ref, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateOrder(ctx, ref)
	}

	return updated, nil
}

func (s *Service) validate(req InitiateRequest) error {
	if !req.ProductType.Valid() {
		return &ValidationError{Field: "product_type", Reason: "must be ticket or book"}
	}

	if strings.TrimSpace(req.Customer.Name) == "" {
		return &ValidationError{Field: "customer.name", Reason: "required"}
	}

	if strings.TrimSpace(req.Customer.Email) == "" {
		return &ValidationError{Field: "customer.email", Reason: "required"}
	}

	switch req.ProductType {
	case domain.ProductTicket:
		if req.Quantity < 1 {
			return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
		if req.Quantity > s.cfg.MaxTicketQuantity {
			return &ValidationError{
				Field:  "quantity",
				Reason: fmt.Sprintf("must be at most %d", s.cfg.MaxTicketQuantity),
			}
		}
		if req.Shipping != nil {
			return &ValidationError{Field: "shipping", Reason: "not accepted for ticket orders"}
		}
	case domain.ProductBook:
		if req.Quantity > 1 {
			return &ValidationError{Field: "quantity", Reason: "book orders are limited to one copy"}
		}
		if req.Shipping == nil {
			return &ValidationError{Field: "shipping", Reason: "required for book orders"}
		}
		for field, v := range map[string]string{
			"shipping.address":  req.Shipping.Address,
			"shipping.city":     req.Shipping.City,
			"shipping.postcode": req.Shipping.Postcode,
		} {
			if strings.TrimSpace(v) == "" {
				return &ValidationError{Field: field, Reason: "required"}
			}
		}
	}

	return nil
}
