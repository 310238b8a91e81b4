package repository

import (
	"time"

	"github.com/paykit/order-gateway/internal/model"
)

type SettlementEntity struct {
	SettlementID int64     `db:"settlement_id" gorm:"primaryKey;autoIncrement;column:settlement_id"`
	OrderID      string    `db:"order_id"      gorm:"column:order_id;not null;index"`
	Amount       float64   `db:"amount"        gorm:"column:amount;not null"`
	SettledAt    time.Time `db:"settled_at"    gorm:"column:settled_at;autoCreateTime"`
}

func (SettlementEntity) TableName() string {
	return "settlements"
}

func toSettlementEntity(m *model.Settlement) *SettlementEntity {
	if m == nil {
		return nil
	}
	return &SettlementEntity{
		SettlementID: m.SettlementID,
		OrderID:      m.OrderID,
		Amount:       m.Amount,
		SettledAt:    m.SettledAt,
	}
}

func toSettlementModel(e *SettlementEntity) *model.Settlement {
	if e == nil {
		return nil
	}
	return &model.Settlement{
		SettlementID: e.SettlementID,
		OrderID:      e.OrderID,
		Amount:       e.Amount,
		SettledAt:    e.SettledAt,
	}
}
