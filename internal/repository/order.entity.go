package repository

import (
	"time"

	"github.com/paykit/order-gateway/internal/model"
)

type OrderEntity struct {
	OrderID     string    `db:"order_id"     gorm:"primaryKey;column:order_id"`
	CustomerID  int64     `db:"customer_id"  gorm:"column:customer_id;not null;index"`
	Status      string    `db:"status"       gorm:"column:status;not null"`
	TotalAmount float64   `db:"total_amount" gorm:"column:total_amount;not null"`
	CreatedAt   time.Time `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderEntity) TableName() string {
	return "orders"
}

func toOrderEntity(m *model.Order) *OrderEntity {
	if m == nil {
		return nil
	}
	return &OrderEntity{
		OrderID:     m.OrderID,
		CustomerID:  m.CustomerID,
		Status:      string(m.Status),
		TotalAmount: m.TotalAmount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toOrderModel(e *OrderEntity) *model.Order {
	if e == nil {
		return nil
	}
	return &model.Order{
		OrderID:     e.OrderID,
		CustomerID:  e.CustomerID,
		Status:      model.OrderStatus(e.Status),
		TotalAmount: e.TotalAmount,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toOrderModels(entities []*OrderEntity) []*model.Order {
	if entities == nil {
		return nil
	}
	models := make([]*model.Order, len(entities))
	for i, e := range entities {
		models[i] = toOrderModel(e)
	}
	return models
}
