package repository

import (
	"context"
	"errors"
	"time"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrOrderNotFound is returned when an order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

const defaultOrderListLimit = 200

type OrderRepository struct {
	*db.DB
}

func NewOrderRepository(database *db.DB) *OrderRepository {
	return &OrderRepository{
		database,
	}
}

// Upsert inserts the order, or overwrites customer_id, status, total_amount
// and updated_at when the order id already exists. created_at is never
// touched on conflict.
func (r *OrderRepository) Upsert(ctx context.Context, order *model.Order) (*model.Order, error) {
	entity := toOrderEntity(order)
	entity.UpdatedAt = time.Now()

	err := r.Write(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"customer_id", "status", "total_amount", "updated_at"}),
		}).
		Create(entity).Error
	if err != nil {
		return nil, err
	}

	return toOrderModel(entity), nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID string) (*model.Order, error) {
	var entity OrderEntity
	err := r.Read(ctx).
		Where("order_id = ?", orderID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderModel(&entity), nil
}

// GetForUpdate loads the order for mutation inside the caller's
// transaction. On postgres the row is locked; sqlite serializes writers on
// its own, so no locking clause is emitted there.
func (r *OrderRepository) GetForUpdate(ctx context.Context, orderID string) (*model.Order, error) {
	q := r.Write(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var entity OrderEntity
	err := q.Where("order_id = ?", orderID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderModel(&entity), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	result := r.Write(ctx).
		Model(&OrderEntity{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// recencyOrder is the newest-first ordering clause. created_at ties are
// broken by insertion order: the implicit rowid on sqlite, the order id on
// postgres where no insertion sequence survives row updates.
func recencyOrder(tx *gorm.DB) string {
	if tx.Dialector.Name() == "sqlite" {
		return "created_at DESC, rowid DESC"
	}
	return "created_at DESC, order_id DESC"
}

// List returns orders newest first. Filtering beyond limit/offset is a
// client-side concern.
func (r *OrderRepository) List(ctx context.Context, f model.OrderFilter) ([]*model.Order, error) {
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = defaultOrderListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := r.Read(ctx)
	var entities []*OrderEntity
	err := q.
		Order(recencyOrder(q)).
		Limit(limit).
		Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toOrderModels(entities), nil
}

// ListRecent returns the n most recently created orders, newest first.
func (r *OrderRepository) ListRecent(ctx context.Context, n int) ([]*model.Order, error) {
	q := r.Read(ctx)
	var entities []*OrderEntity
	err := q.
		Order(recencyOrder(q)).
		Limit(n).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toOrderModels(entities), nil
}

// CountByStatus returns the number of orders per status. Statuses with no
// orders are absent from the map.
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.Read(ctx).
		Model(&OrderEntity{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[model.OrderStatus(row.Status)] = row.Count
	}
	return counts, nil
}
