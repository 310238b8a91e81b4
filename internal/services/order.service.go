package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/internal/repository"
)

const recentOrderCount = 5

// OrderService serves the read side: order lookup, listing and the stats
// rollup. It never mutates any of the three tables.
type OrderService struct {
	orderRepo      OrderRepository
	authRepo       AuthorizationRepository
	settlementRepo SettlementRepository
}

func NewOrderService(
	orderRepo OrderRepository,
	authRepo AuthorizationRepository,
	settlementRepo SettlementRepository,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		authRepo:       authRepo,
		settlementRepo: settlementRepo,
	}
}

// Get returns the order with its most recent authorization and settlement,
// either of which may be nil.
func (s *OrderService) Get(ctx context.Context, orderID string) (*model.OrderDetail, error) {
	order, err := s.orderRepo.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	lastAuth, err := s.authRepo.LatestByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load authorization: %w", err)
	}
	lastSettlement, err := s.settlementRepo.LatestByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load settlement: %w", err)
	}

	return &model.OrderDetail{
		Order:             order,
		LastAuthorization: lastAuth,
		LastSettlement:    lastSettlement,
	}, nil
}

func (s *OrderService) List(ctx context.Context, f model.OrderFilter) ([]*model.Order, error) {
	return s.orderRepo.List(ctx, f)
}

// Stats builds the dashboard rollup. Every status reports a count, zero
// included, plus the ALL total; an empty database yields zero/empty
// defaults throughout.
func (s *OrderService) Stats(ctx context.Context) (*model.Stats, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	totals := make(map[string]int64, len(model.OrderStatuses)+1)
	var all int64
	for _, status := range model.OrderStatuses {
		totals[string(status)] = counts[status]
		all += counts[status]
	}
	totals[model.StatsTotalKey] = all

	recent, err := s.orderRepo.ListRecent(ctx, recentOrderCount)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	if recent == nil {
		recent = []*model.Order{}
	}

	settledTotal, err := s.settlementRepo.TotalAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum settlements: %w", err)
	}

	return &model.Stats{
		Totals:       totals,
		RecentOrders: recent,
		SettledTotal: settledTotal,
	}, nil
}
