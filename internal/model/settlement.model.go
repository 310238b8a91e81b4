package model

import "time"

// Settlement is a recorded capture of funds for an order. Append-only.
// The settled amount is not checked against the order total; partial
// settlements are legitimate.
type Settlement struct {
	SettlementID int64     `json:"settlement_id" db:"settlement_id" gorm:"primaryKey;autoIncrement;column:settlement_id"`
	OrderID      string    `json:"order_id"      db:"order_id"      gorm:"column:order_id;not null;index"`
	Amount       float64   `json:"amount"        db:"amount"        gorm:"column:amount;not null"`
	SettledAt    time.Time `json:"settled_at"    db:"settled_at"    gorm:"column:settled_at;autoCreateTime"`
}

func (Settlement) TableName() string { return "settlements" }
