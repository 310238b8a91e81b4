package repository

import (
	"time"

	"github.com/paykit/order-gateway/internal/model"
)

type AuthorizationEntity struct {
	AuthID         int64      `db:"auth_id"         gorm:"primaryKey;autoIncrement;column:auth_id"`
	OrderID        string     `db:"order_id"        gorm:"column:order_id;not null;index"`
	Outcome        string     `db:"outcome"         gorm:"column:outcome;not null"`
	GatewayCode    string     `db:"gateway_code"    gorm:"column:gateway_code"`
	GatewayMessage string     `db:"gateway_message" gorm:"column:gateway_message"`
	Amount         float64    `db:"amount"          gorm:"column:amount;not null"`
	AuthToken      *string    `db:"auth_token"      gorm:"column:auth_token"`
	AuthExpiresAt  *time.Time `db:"auth_expires_at" gorm:"column:auth_expires_at"`
	CreatedAt      time.Time  `db:"created_at"      gorm:"column:created_at;autoCreateTime"`
}

func (AuthorizationEntity) TableName() string {
	return "authorizations"
}

func toAuthorizationEntity(m *model.Authorization) *AuthorizationEntity {
	if m == nil {
		return nil
	}
	return &AuthorizationEntity{
		AuthID:         m.AuthID,
		OrderID:        m.OrderID,
		Outcome:        string(m.Outcome),
		GatewayCode:    m.GatewayCode,
		GatewayMessage: m.GatewayMessage,
		Amount:         m.Amount,
		AuthToken:      m.AuthToken,
		AuthExpiresAt:  m.AuthExpiresAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toAuthorizationModel(e *AuthorizationEntity) *model.Authorization {
	if e == nil {
		return nil
	}
	return &model.Authorization{
		AuthID:         e.AuthID,
		OrderID:        e.OrderID,
		Outcome:        model.AuthOutcome(e.Outcome),
		GatewayCode:    e.GatewayCode,
		GatewayMessage: e.GatewayMessage,
		Amount:         e.Amount,
		AuthToken:      e.AuthToken,
		AuthExpiresAt:  e.AuthExpiresAt,
		CreatedAt:      e.CreatedAt,
	}
}
