package handlers

import (
	xhttp "github.com/paykit/order-gateway/pkg/http"
)

type HealthService interface {
	Get() error
}
type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(r *xhttp.Router, h *HealthHandler) {
	r.GET("/health", h.GetHealth)
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		svc: healthService,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	ctx.Response.SetBodyString("success")
}
