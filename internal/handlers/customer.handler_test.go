package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/internal/services"
	xhttp "github.com/paykit/order-gateway/pkg/http"
)

type mockCustomerService struct {
	mock.Mock
}

func (m *mockCustomerService) Register(ctx context.Context, req model.RegisterRequest) (*services.RegisterResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RegisterResult), args.Error(1)
}

func (m *mockCustomerService) Verify(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

func TestCustomerHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockCustomerService)
		h := NewCustomerHandler(svc)

		svc.On("Register", mock.Anything, model.RegisterRequest{Email: "a@b.test", Password: "longenough"}).
			Return(&services.RegisterResult{CustomerID: 42}, nil)

		ctx := newTestCtx("POST", "/customers/register", `{"email":"a@b.test","password":"longenough"}`)
		h.Register(ctx)

		assert.Equal(t, xhttp.StatusCreated, ctx.Response.StatusCode())

		var body map[string]any
		decodeBody(t, ctx, &body)
		assert.EqualValues(t, 42, body["customerId"])
		_, hasWarning := body["warning"]
		assert.False(t, hasWarning)
	})

	t.Run("created with warning", func(t *testing.T) {
		svc := new(mockCustomerService)
		h := NewCustomerHandler(svc)

		svc.On("Register", mock.Anything, mock.Anything).
			Return(&services.RegisterResult{CustomerID: 42, Warning: services.WarnEmailNotSent}, nil)

		ctx := newTestCtx("POST", "/customers/register", `{"email":"a@b.test","password":"longenough"}`)
		h.Register(ctx)

		assert.Equal(t, xhttp.StatusCreated, ctx.Response.StatusCode())

		var body map[string]any
		decodeBody(t, ctx, &body)
		assert.Equal(t, services.WarnEmailNotSent, body["warning"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := new(mockCustomerService)
		h := NewCustomerHandler(svc)

		svc.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrDuplicateEmail)

		ctx := newTestCtx("POST", "/customers/register", `{"email":"a@b.test","password":"longenough"}`)
		h.Register(ctx)

		assert.Equal(t, xhttp.StatusConflict, ctx.Response.StatusCode())
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewCustomerHandler(new(mockCustomerService))

		ctx := newTestCtx("POST", "/customers/register", `{"email":`)
		h.Register(ctx)

		assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
	})
}

func TestCustomerHandler_Verify(t *testing.T) {
	t.Run("verified", func(t *testing.T) {
		svc := new(mockCustomerService)
		h := NewCustomerHandler(svc)

		svc.On("Verify", mock.Anything, "a@b.test", "tok").Return(nil)

		ctx := newTestCtx("POST", "/customers/verify", `{"email":"a@b.test","token":"tok"}`)
		h.Verify(ctx)

		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())

		var body map[string]bool
		decodeBody(t, ctx, &body)
		assert.True(t, body["verified"])
	})

	t.Run("bad token", func(t *testing.T) {
		svc := new(mockCustomerService)
		h := NewCustomerHandler(svc)

		svc.On("Verify", mock.Anything, "a@b.test", "wrong").Return(services.ErrBadVerifyToken)

		ctx := newTestCtx("POST", "/customers/verify", `{"email":"a@b.test","token":"wrong"}`)
		h.Verify(ctx)

		assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc := new(mockCustomerService)
		h := NewCustomerHandler(svc)

		svc.On("Verify", mock.Anything, "missing@b.test", "tok").Return(services.ErrCustomerNotFound)

		ctx := newTestCtx("POST", "/customers/verify", `{"email":"missing@b.test","token":"tok"}`)
		h.Verify(ctx)

		assert.Equal(t, xhttp.StatusNotFound, ctx.Response.StatusCode())
	})
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService())

	ctx := newTestCtx("GET", "/health", "")
	h.GetHealth(ctx)

	assert.Equal(t, "success", string(ctx.Response.Body()))
}
