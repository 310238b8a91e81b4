package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/internal/services"
	xhttp "github.com/paykit/order-gateway/pkg/http"
)

type PaymentService interface {
	Authorize(ctx context.Context, req model.CheckoutRequest) (*services.CheckoutResult, error)
	Settle(ctx context.Context, req model.SettleRequest) (*services.SettleResult, error)
}

type OrderService interface {
	Get(ctx context.Context, orderID string) (*model.OrderDetail, error)
	List(ctx context.Context, f model.OrderFilter) ([]*model.Order, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

type OrderHandler struct {
	payments PaymentService
	orders   OrderService
}

func RegisterOrderRoutes(r *xhttp.Router, h *OrderHandler) {
	r.POST("/orders/checkout", h.Checkout)
	r.POST("/payments/settle", h.Settle)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/{id}", h.GetOrder)
	r.GET("/stats", h.Stats)
}

func NewOrderHandler(payments PaymentService, orders OrderService) *OrderHandler {
	return &OrderHandler{
		payments: payments,
		orders:   orders,
	}
}

type checkoutRequest struct {
	OrderID    string  `json:"orderId"`
	CustomerID int64   `json:"customerId"`
	Amount     float64 `json:"amount"`
	Last4      string  `json:"last4"`
}

type settleRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *OrderHandler) Checkout(ctx *xhttp.RequestCtx) {
	var req checkoutRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.payments.Authorize(ctx, model.CheckoutRequest{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Last4:      req.Last4,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, result)
}

func (h *OrderHandler) Settle(ctx *xhttp.RequestCtx) {
	var req settleRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.payments.Settle(ctx, model.SettleRequest{
		OrderID: req.OrderID,
		Amount:  req.Amount,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, result)
}

func (h *OrderHandler) ListOrders(ctx *xhttp.RequestCtx) {
	var f model.OrderFilter
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}

	orders, err := h.orders.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	writeJSON(ctx, xhttp.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(ctx *xhttp.RequestCtx) {
	orderID, _ := ctx.UserValue("id").(string)

	detail, err := h.orders.Get(ctx, orderID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, detail)
}

func (h *OrderHandler) Stats(ctx *xhttp.RequestCtx) {
	stats, err := h.orders.Stats(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, stats)
}

/* --------------------------------- Helpers ----------------------------------- */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// unknown entities are 404, rejected input and state-machine violations are
// 400, duplicates are 409, anything else is a storage-level 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCustomerNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNotAuthorized),
		errors.Is(err, services.ErrBadVerifyToken):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(ctx, xhttp.StatusConflict, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
