package httpgin

import (
	"time"

	"github.com/farringdon-press/boxoffice/internal/domain"
)

type CustomerInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type ShippingInput struct {
	Address  string `json:"address" binding:"required"`
	City     string `json:"city" binding:"required"`
	Postcode string `json:"postcode" binding:"required"`
}

type CreateOrderRequest struct {
	ProductType string         `json:"productType" binding:"required,oneof=ticket book"`
	Quantity    int            `json:"quantity"`
	Customer    CustomerInput  `json:"customer" binding:"required"`
	Shipping    *ShippingInput `json:"shipping"`
}

type CreateOrderResponse struct {
	CheckoutURL    string `json:"checkoutUrl"`
	SessionID      string `json:"sessionId"`
	OrderReference string `json:"orderReference"`
}

type CustomerPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type ShippingPatch struct {
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Postcode *string `json:"postcode"`
}

type UpdateOrderRequest struct {
	Customer *CustomerPatch `json:"customer"`
	Shipping *ShippingPatch `json:"shipping"`
}

func (r UpdateOrderRequest) patch() domain.OrderPatch {
	var p domain.OrderPatch
	if r.Customer != nil {
		p.CustomerName = r.Customer.Name
		p.CustomerEmail = r.Customer.Email
		p.CustomerPhone = r.Customer.Phone
	}
	if r.Shipping != nil {
		p.ShipAddress = r.Shipping.Address
		p.ShipCity = r.Shipping.City
		p.ShipPostcode = r.Shipping.Postcode
	}
	return p
}

type CustomerView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type ShippingView struct {
	Address  string `json:"address"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

type OrderResponse struct {
	OrderReference  string        `json:"orderReference"`
	ProductType     string        `json:"productType"`
	Customer        CustomerView  `json:"customer"`
	Shipping        *ShippingView `json:"shipping,omitempty"`
	Quantity        int           `json:"quantity"`
	AmountTotal     int64         `json:"amountTotal"`
	Currency        string        `json:"currency"`
	SessionID       string        `json:"sessionId"`
	PaymentIntentID string        `json:"paymentIntentId,omitempty"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func orderView(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		OrderReference: o.Reference,
		ProductType:    string(o.ProductType),
		Customer: CustomerView{
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
			Phone: o.Customer.Phone,
		},
		Quantity:        o.Quantity,
		AmountTotal:     o.AmountTotal,
		Currency:        o.Currency,
		SessionID:       o.PaymentSessionID,
		PaymentIntentID: o.PaymentIntentID,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Shipping != nil {
		resp.Shipping = &ShippingView{
			Address:  o.Shipping.Address,
			City:     o.Shipping.City,
			Postcode: o.Shipping.Postcode,
		}
	}
	return resp
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
