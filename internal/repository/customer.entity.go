package repository

import (
	"time"

	"github.com/paykit/order-gateway/internal/model"
)

type CustomerEntity struct {
	ID           int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Email        string    `db:"email"         gorm:"column:email;not null;unique"`
	PasswordHash string    `db:"password_hash" gorm:"column:password_hash;not null"`
	VerifyToken  string    `db:"verify_token"  gorm:"column:verify_token"`
	Verified     bool      `db:"verified"      gorm:"column:verified;not null;default:false"`
	CreatedAt    time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		VerifyToken:  m.VerifyToken,
		Verified:     m.Verified,
		CreatedAt:    m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		VerifyToken:  e.VerifyToken,
		Verified:     e.Verified,
		CreatedAt:    e.CreatedAt,
	}
}
