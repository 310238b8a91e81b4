package model

import "time"

// AuthOutcome is the coarse result recorded on an authorization attempt.
// It is deliberately narrower than the gateway's four-way outcome: both
// decline reasons collapse into DECLINED.
type AuthOutcome string

const (
	AuthOutcomeSuccess  AuthOutcome = "SUCCESS"
	AuthOutcomeDeclined AuthOutcome = "DECLINED"
	AuthOutcomeError    AuthOutcome = "ERROR"
)

// Authorization is one recorded attempt to approve an order for payment.
// Rows are append-only: a retried checkout appends a new attempt rather
// than rewriting history. The token and expiry are only present on SUCCESS.
type Authorization struct {
	AuthID         int64       `json:"auth_id"         db:"auth_id"         gorm:"primaryKey;autoIncrement;column:auth_id"`
	OrderID        string      `json:"order_id"        db:"order_id"        gorm:"column:order_id;not null;index"`
	Outcome        AuthOutcome `json:"outcome"         db:"outcome"         gorm:"column:outcome;not null"`
	GatewayCode    string      `json:"gateway_code"    db:"gateway_code"    gorm:"column:gateway_code"`
	GatewayMessage string      `json:"gateway_message" db:"gateway_message" gorm:"column:gateway_message"`
	Amount         float64     `json:"amount"          db:"amount"          gorm:"column:amount;not null"`
	AuthToken      *string     `json:"auth_token,omitempty"      db:"auth_token"      gorm:"column:auth_token"`
	AuthExpiresAt  *time.Time  `json:"auth_expires_at,omitempty" db:"auth_expires_at" gorm:"column:auth_expires_at"`
	CreatedAt      time.Time   `json:"created_at"      db:"created_at"      gorm:"column:created_at;autoCreateTime"`
}

func (Authorization) TableName() string { return "authorizations" }
