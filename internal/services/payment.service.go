package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paykit/order-gateway/internal/gateway"
	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/internal/repository"
	"github.com/paykit/order-gateway/pkg/prom"
)

var (
	// ErrValidation wraps every rejected input; handlers map it to 400.
	ErrValidation = errors.New("validation failed")
	// ErrOrderNotFound is returned when the order id is unknown.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotAuthorized rejects settlement of any order that is not in the
	// AUTHORIZED state, including orders that were already settled.
	ErrNotAuthorized = errors.New("order is not authorized, cannot settle")
)

type OrderRepository interface {
	Upsert(ctx context.Context, order *model.Order) (*model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
	GetForUpdate(ctx context.Context, orderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	List(ctx context.Context, f model.OrderFilter) ([]*model.Order, error)
	ListRecent(ctx context.Context, n int) ([]*model.Order, error)
	CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuthorizationRepository interface {
	Create(ctx context.Context, auth *model.Authorization) (*model.Authorization, error)
	LatestByOrder(ctx context.Context, orderID string) (*model.Authorization, error)
}

type SettlementRepository interface {
	Create(ctx context.Context, settlement *model.Settlement) (*model.Settlement, error)
	LatestByOrder(ctx context.Context, orderID string) (*model.Settlement, error)
	TotalAmount(ctx context.Context) (float64, error)
}

// CheckoutResult carries all three result levels: the raw four-way gateway
// outcome for UI display, the order status, and the coarse outcome recorded
// on the authorization row. Callers differentiate by use case.
type CheckoutResult struct {
	OrderID string            `json:"orderId"`
	Result  gateway.Outcome   `json:"result"`
	Status  model.OrderStatus `json:"status"`
	Outcome model.AuthOutcome `json:"outcome"`
}

type SettleResult struct {
	OrderID       string            `json:"orderId"`
	PaymentStatus model.OrderStatus `json:"paymentStatus"`
}

// PaymentService coordinates the order store and the two append-only
// ledgers through the checkout/settlement state machine.
type PaymentService struct {
	orderRepo      OrderRepository
	authRepo       AuthorizationRepository
	settlementRepo SettlementRepository
	authorizer     gateway.Authorizer
	now            func() time.Time
}

func NewPaymentService(
	orderRepo OrderRepository,
	authRepo AuthorizationRepository,
	settlementRepo SettlementRepository,
	authorizer gateway.Authorizer,
) *PaymentService {
	return &PaymentService{
		orderRepo:      orderRepo,
		authRepo:       authRepo,
		settlementRepo: settlementRepo,
		authorizer:     authorizer,
		now:            time.Now,
	}
}

// statusForOutcome maps the gateway's four-way outcome to the order status.
func statusForOutcome(outcome gateway.Outcome) model.OrderStatus {
	switch outcome {
	case gateway.OutcomeSuccess:
		return model.OrderStatusAuthorized
	case gateway.OutcomeInsufficientFunds, gateway.OutcomeIncorrectDetails:
		return model.OrderStatusDeclined
	default:
		return model.OrderStatusError
	}
}

// authOutcomeForStatus collapses the order status into the coarse outcome
// recorded on the authorization row.
func authOutcomeForStatus(status model.OrderStatus) model.AuthOutcome {
	switch status {
	case model.OrderStatusAuthorized:
		return model.AuthOutcomeSuccess
	case model.OrderStatusDeclined:
		return model.AuthOutcomeDeclined
	default:
		return model.AuthOutcomeError
	}
}

// Authorize runs the checkout flow: draw a mock gateway outcome, upsert the
// order and append an authorization attempt, all inside one transaction.
// A repeat checkout for the same order id overwrites the order record
// (latest write wins) but still appends a fresh authorization row.
func (s *PaymentService) Authorize(ctx context.Context, req model.CheckoutRequest) (*CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	res := s.authorizer.Authorize(gateway.AuthorizeRequest{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Last4:   req.Last4,
	})

	status := statusForOutcome(res.Outcome)
	outcome := authOutcomeForStatus(status)

	err := s.orderRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.orderRepo.Upsert(ctx, &model.Order{
			OrderID:     req.OrderID,
			CustomerID:  req.CustomerID,
			Status:      status,
			TotalAmount: req.Amount,
		})
		if err != nil {
			return fmt.Errorf("upsert order: %w", err)
		}

		auth := &model.Authorization{
			OrderID:        req.OrderID,
			Outcome:        outcome,
			GatewayCode:    res.Code,
			GatewayMessage: res.Message,
			Amount:         req.Amount,
		}
		if res.Approved() {
			token := res.AuthToken
			expires := res.AuthExpiresAt
			auth.AuthToken = &token
			auth.AuthExpiresAt = &expires
		}
		if _, err := s.authRepo.Create(ctx, auth); err != nil {
			return fmt.Errorf("create authorization: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounterVec(prom.SystemPayments, prom.MetricAuthorizationOutcome, string(res.Outcome))

	return &CheckoutResult{
		OrderID: req.OrderID,
		Result:  res.Outcome,
		Status:  status,
		Outcome: outcome,
	}, nil
}

// Settle captures funds for an AUTHORIZED order and flips it to SETTLED.
// The whole read-check-write sequence runs in one transaction with the
// order row locked, so concurrent settles cannot both pass the status
// check: the loser observes SETTLED and fails with ErrNotAuthorized.
func (s *PaymentService) Settle(ctx context.Context, req model.SettleRequest) (*SettleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	err := s.orderRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, req.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}

		if order.Status != model.OrderStatusAuthorized {
			return ErrNotAuthorized
		}

		latest, err := s.authRepo.LatestByOrder(ctx, req.OrderID)
		if err != nil {
			return fmt.Errorf("load authorization: %w", err)
		}
		if latest == nil {
			// pre-seeded orders may carry no authorization trail;
			// backfill one so every settled order has at least one
			if err := s.backfillAuthorization(ctx, order); err != nil {
				return fmt.Errorf("backfill authorization: %w", err)
			}
		}

		if _, err := s.settlementRepo.Create(ctx, &model.Settlement{
			OrderID: req.OrderID,
			Amount:  req.Amount,
		}); err != nil {
			return fmt.Errorf("create settlement: %w", err)
		}

		if err := s.orderRepo.UpdateStatus(ctx, req.OrderID, model.OrderStatusSettled); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemPayments, prom.MetricSettlementCount)
	prom.AddCounter(prom.SystemPayments, prom.MetricSettlementAmount, req.Amount)

	return &SettleResult{
		OrderID:       req.OrderID,
		PaymentStatus: model.OrderStatusSettled,
	}, nil
}

func (s *PaymentService) backfillAuthorization(ctx context.Context, order *model.Order) error {
	token := gateway.NewAuthToken(order.OrderID)
	expires := s.now().Add(gateway.TokenTTL)

	_, err := s.authRepo.Create(ctx, &model.Authorization{
		OrderID:        order.OrderID,
		Outcome:        model.AuthOutcomeSuccess,
		GatewayCode:    "00",
		GatewayMessage: "Approved",
		Amount:         order.TotalAmount,
		AuthToken:      &token,
		AuthExpiresAt:  &expires,
	})
	return err
}
