package httpgin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farringdon-press/boxoffice/internal/domain"
	"github.com/farringdon-press/boxoffice/internal/gateway"
	"github.com/farringdon-press/boxoffice/internal/notifier"
	"github.com/farringdon-press/boxoffice/internal/repository"
	"github.com/farringdon-press/boxoffice/internal/service"
	"github.com/farringdon-press/boxoffice/internal/service/orders"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Fakes ---

type fakeStore struct {
	orders map[string]*domain.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[string]*domain.Order)}
}

func (f *fakeStore) Create(_ context.Context, o *domain.Order) error {
	if _, ok := f.orders[o.Reference]; ok {
		return repository.ErrConflict
	}
	cp := *o
	f.orders[o.Reference] = &cp
	return nil
}

func (f *fakeStore) GetByReference(_ context.Context, ref string) (*domain.Order, error) {
	o, ok := f.orders[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) Update(_ context.Context, ref string, patch domain.OrderPatch) (*domain.Order, error) {
	o, ok := f.orders[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.CustomerEmail != nil {
		o.Customer.Email = *patch.CustomerEmail
	}
	if patch.CustomerName != nil {
		o.Customer.Name = *patch.CustomerName
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) UpdateIfStatus(
	_ context.Context,
	ref string,
	expected domain.OrderStatus,
	patch domain.OrderPatch,
) (*domain.Order, error) {
	o, ok := f.orders[ref]
	if !ok || o.Status != expected {
		return nil, repository.ErrNotFound
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.PaymentIntentID != nil {
		o.PaymentIntentID = *patch.PaymentIntentID
	}
	cp := *o
	return &cp, nil
}

type fakeGateway struct {
	event     *gateway.Event
	verifyErr error
}

func (f *fakeGateway) CreateCheckout(_ context.Context, req gateway.CheckoutRequest) (*gateway.Checkout, error) {
	return &gateway.Checkout{
		SessionID:   "cs_fake",
		URL:         "https://pay.example/cs_fake",
		AmountTotal: req.UnitAmount * req.Quantity,
	}, nil
}

func (f *fakeGateway) VerifyEvent(_ []byte, _ string) (*gateway.Event, error) {
	return f.event, f.verifyErr
}

type fakeNotifier struct {
	calls int
}

func (f *fakeNotifier) Notify(_ context.Context, _ *domain.Order, _ notifier.Kind) error {
	f.calls++
	return nil
}

// --- Helpers ---

func newTestRouter(store *fakeStore, gw *fakeGateway) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svcs := service.NewServices(store, gw, &fakeNotifier{}, nil, nil, nil, nil, logger, service.Config{
		Orders: orders.Config{
			TicketUnitAmount: 1500,
			BookUnitAmount:   2200,
		},
	})
	return NewRouter(svcs, logger)
}

func seedOrder(store *fakeStore, ref string) {
	store.orders[ref] = &domain.Order{
		Reference:        ref,
		ProductType:      domain.ProductTicket,
		Customer:         domain.Customer{Name: "Alice Example", Email: "alice@example.com"},
		Quantity:         2,
		AmountTotal:      3000,
		Currency:         "gbp",
		PaymentSessionID: "cs_fake",
		Status:           domain.StatusPending,
	}
}

func doRequest(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestHealth(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeGateway{})

	w := doRequest(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateOrder(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, &fakeGateway{})

	body := `{
		"productType": "ticket",
		"quantity": 2,
		"customer": {"name": "Alice Example", "email": "alice@example.com"}
	}`
	w := doRequest(r, http.MethodPost, "/orders", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var res CreateOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "https://pay.example/cs_fake", res.CheckoutURL)
	assert.Equal(t, "cs_fake", res.SessionID)
	assert.NotEmpty(t, res.OrderReference)

	o, ok := store.orders[res.OrderReference]
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, int64(3000), o.AmountTotal)
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeGateway{})

	w := doRequest(r, http.MethodPost, "/orders", `{"productType":`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeGateway{})

	body := `{
		"productType": "ticket",
		"quantity": 0,
		"customer": {"name": "Alice", "email": "alice@example.com"}
	}`
	w := doRequest(r, http.MethodPost, "/orders", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestGetOrder(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "FP-1")
	r := newTestRouter(store, &fakeGateway{})

	w := doRequest(r, http.MethodGet, "/orders/FP-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "FP-1", res.OrderReference)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, int64(3000), res.AmountTotal)

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	// Conditional re-read short-circuits while nothing changed.
	w2 := doRequest(r, http.MethodGet, "/orders/FP-1", "", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, w2.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeGateway{})

	w := doRequest(r, http.MethodGet, "/orders/FP-missing", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestUpdateOrder(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "FP-1")
	r := newTestRouter(store, &fakeGateway{})

	w := doRequest(r, http.MethodPatch, "/orders/FP-1", `{"customer": {"email": "new@example.com"}}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "new@example.com", res.Customer.Email)
}

func TestUpdateOrder_EmptyPatch(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "FP-1")
	r := newTestRouter(store, &fakeGateway{})

	w := doRequest(r, http.MethodPatch, "/orders/FP-1", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentWebhook(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "FP-1")
	gw := &fakeGateway{event: &gateway.Event{
		ID:              "evt_1",
		Kind:            gateway.EventCompleted,
		SessionID:       "cs_fake",
		PaymentIntentID: "pi_1",
		AmountTotal:     3000,
		Metadata:        map[string]string{gateway.MetaOrderReference: "FP-1"},
	}}
	r := newTestRouter(store, gw)

	w := doRequest(r, http.MethodPost, "/webhooks/payment", `{}`, map[string]string{"Stripe-Signature": "sig"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)

	assert.Equal(t, domain.StatusCompleted, store.orders["FP-1"].Status)
	assert.Equal(t, "pi_1", store.orders["FP-1"].PaymentIntentID)
}

func TestPaymentWebhook_BadSignature(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "FP-1")
	gw := &fakeGateway{verifyErr: gateway.ErrSignature}
	r := newTestRouter(store, gw)

	w := doRequest(r, http.MethodPost, "/webhooks/payment", `{}`, map[string]string{"Stripe-Signature": "bad"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "signature_error")
	assert.Equal(t, domain.StatusPending, store.orders["FP-1"].Status)
}
