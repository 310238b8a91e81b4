package handlers

import (
	"context"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/internal/services"
	xhttp "github.com/paykit/order-gateway/pkg/http"
)

type CustomerService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*services.RegisterResult, error)
	Verify(ctx context.Context, email, token string) error
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(r *xhttp.Router, h *CustomerHandler) {
	r.POST("/customers/register", h.Register)
	r.POST("/customers/verify", h.Verify)
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: customerService,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *CustomerHandler) Register(ctx *xhttp.RequestCtx) {
	var req registerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.svc.Register(ctx, model.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, result)
}

func (h *CustomerHandler) Verify(ctx *xhttp.RequestCtx) {
	var req verifyRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := h.svc.Verify(ctx, req.Email, req.Token); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"verified": true})
}
