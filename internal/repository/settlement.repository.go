package repository

import (
	"context"
	"errors"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/pkg/db"
	"gorm.io/gorm"
)

// SettlementRepository is an append-only log of settlement events.
type SettlementRepository struct {
	*db.DB
}

func NewSettlementRepository(database *db.DB) *SettlementRepository {
	return &SettlementRepository{
		database,
	}
}

func (r *SettlementRepository) Create(ctx context.Context, settlement *model.Settlement) (*model.Settlement, error) {
	entity := toSettlementEntity(settlement)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toSettlementModel(entity), nil
}

// LatestByOrder returns the most recent settlement for the order, or
// (nil, nil) when the order has never been settled.
func (r *SettlementRepository) LatestByOrder(ctx context.Context, orderID string) (*model.Settlement, error) {
	var entity SettlementEntity
	err := r.Read(ctx).
		Where("order_id = ?", orderID).
		Order("settled_at DESC, settlement_id DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toSettlementModel(&entity), nil
}

// TotalAmount sums every settled amount; 0 on an empty table.
func (r *SettlementRepository) TotalAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.Read(ctx).
		Model(&SettlementEntity{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
