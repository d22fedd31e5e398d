package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/farringdon-press/boxoffice/internal/domain"
	"github.com/farringdon-press/boxoffice/internal/gateway"
	"github.com/farringdon-press/boxoffice/internal/service"
	"github.com/farringdon-press/boxoffice/internal/service/orders"
	"github.com/farringdon-press/boxoffice/internal/service/query"
)

func NewRouter(
	svcs *service.Services,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/health", handleHealth())

	// Public API
	r.POST("/orders", handleCreateOrder(svcs))
	r.GET("/orders/:reference", handleGetOrder(svcs))
	r.PATCH("/orders/:reference", handleUpdateOrder(svcs))

	// Payment provider callback. The raw body is consumed unparsed; the
	// signature covers the exact bytes on the wire.
	r.POST("/webhooks/payment", handlePaymentWebhook(svcs))

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Health check
// @Success  200 {object} HealthResponse
// @Router   /health [get]
func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
		})
	}
}

// @Summary  Initiate a checkout and create a pending order
// @Param    req body CreateOrderRequest true "payload"
// @Success  201 {object} CreateOrderResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "order reference conflict"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Failure  502 {object} ErrorResponse "gateway or store failure"
// @Router   /orders [post]
func handleCreateOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		initReq := orders.InitiateRequest{
			ProductType: domain.ProductType(req.ProductType),
			Quantity:    req.Quantity,
			Customer: domain.Customer{
				Name:  req.Customer.Name,
				Email: req.Customer.Email,
				Phone: req.Customer.Phone,
			},
		}
		if req.Shipping != nil {
			initReq.Shipping = &domain.Shipping{
				Address:  req.Shipping.Address,
				City:     req.Shipping.City,
				Postcode: req.Shipping.Postcode,
			}
		}

		rlKey := "ip:" + c.ClientIP()

		res, err := svcs.Orders.Initiate(c.Request.Context(), initReq, rlKey)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreateOrderResponse{
			CheckoutURL:    res.CheckoutURL,
			SessionID:      res.SessionID,
			OrderReference: res.OrderReference,
		})
	}
}

// @Summary  Get order by reference
// @Param    reference path string true "Order reference"
// @Success  200 {object} OrderResponse
// @Failure  404 {object} ErrorResponse
// @Router   /orders/{reference} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("reference")

		o, err := svcs.Query.GetOrder(c.Request.Context(), ref)
		if err != nil {
			respondErr(c, err)
			return
		}

		// ETag + short Cache-Control: the success page polls this endpoint.
		writeJSONWithCache(c, http.StatusOK, orderView(o), "private, max-age=5", true)
	}
}

// @Summary  Patch order contact or shipping details
// @Param    reference path string true "Order reference"
// @Param    req body UpdateOrderRequest true "payload"
// @Success  200 {object} OrderResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /orders/{reference} [patch]
func handleUpdateOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("reference")

		var req UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		o, err := svcs.Orders.UpdateContact(c.Request.Context(), ref, req.patch())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, orderView(o))
	}
}

// @Summary  Payment provider webhook
// @Param    Stripe-Signature header string true "signature over the raw payload"
// @Success  200 {object} WebhookResponse
// @Failure  400 {object} ErrorResponse "signature verification failed"
// @Failure  502 {object} ErrorResponse "store failure, provider will retry"
// @Router   /webhooks/payment [post]
func handlePaymentWebhook(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			badRequest(c, "unreadable body")
			return
		}

		sig := c.GetHeader("Stripe-Signature")

		if err := svcs.Orders.HandlePaymentEvent(c.Request.Context(), payload, sig); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, WebhookResponse{Received: true})
	}
}

// --- Helpers ---

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var ve *orders.ValidationError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Error: ve.Error()})
		return
	case errors.Is(err, gateway.ErrSignature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "signature_error", Error: "signature verification failed"})
		return
	case errors.Is(err, orders.ErrOrderConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Code: "conflict", Error: "order reference conflict, retry"})
		return
	case errors.Is(err, orders.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Code: "rate_limited", Error: "too many checkout attempts"})
		return
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, query.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "order not found"})
		return
	}

	c.JSON(http.StatusBadGateway, ErrorResponse{Code: "upstream_error", Error: "upstream dependency failed"})
}
