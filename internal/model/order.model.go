package model

import (
	"errors"
	"math"
	"time"
)

// OrderStatus is the lifecycle state of an order.
//
// PENDING -> (checkout) -> AUTHORIZED | DECLINED | ERROR
// AUTHORIZED -> (settle) -> SETTLED
//
// DECLINED, ERROR and SETTLED are terminal for the settlement flow. A repeat
// checkout overwrites the order record, keeping the mock flow replayable.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusAuthorized OrderStatus = "AUTHORIZED"
	OrderStatusDeclined   OrderStatus = "DECLINED"
	OrderStatusError      OrderStatus = "ERROR"
	OrderStatusSettled    OrderStatus = "SETTLED"
)

// OrderStatuses lists every status, used by the stats rollup so empty
// statuses still report a zero count.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAuthorized,
	OrderStatusDeclined,
	OrderStatusError,
	OrderStatusSettled,
}

type Order struct {
	OrderID     string      `json:"order_id"     db:"order_id"     gorm:"primaryKey;column:order_id"`
	CustomerID  int64       `json:"customer_id"  db:"customer_id"  gorm:"column:customer_id;not null;index"`
	Status      OrderStatus `json:"status"       db:"status"       gorm:"column:status;not null"`
	TotalAmount float64     `json:"total_amount" db:"total_amount" gorm:"column:total_amount;not null"`
	CreatedAt   time.Time   `json:"created_at"   db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at"   db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

// CheckoutRequest is the input for the checkout/authorization flow.
type CheckoutRequest struct {
	OrderID    string
	CustomerID int64
	Amount     float64
	Last4      string
}

func (r CheckoutRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("orderId is required")
	}
	if r.CustomerID == 0 {
		return errors.New("customerId is required")
	}
	if r.Amount <= 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return errors.New("amount must be a positive number")
	}
	return nil
}

// SettleRequest is the input for the settlement flow.
type SettleRequest struct {
	OrderID string
	Amount  float64
}

func (r SettleRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("orderId is required")
	}
	if r.Amount <= 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return errors.New("amount must be a positive number")
	}
	return nil
}

// OrderFilter controls List queries. Orders are always returned newest
// first; filtering beyond pagination is a client-side concern.
type OrderFilter struct {
	Limit  int // default 200
	Offset int
}

// OrderDetail is an order together with its most recent authorization and
// settlement, each of which may be absent.
type OrderDetail struct {
	Order             *Order         `json:"order"`
	LastAuthorization *Authorization `json:"lastAuthorization"`
	LastSettlement    *Settlement    `json:"lastSettlement"`
}
