package model

import (
	"errors"
	"strings"
	"time"
)

type Customer struct {
	ID           int64     `json:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Email        string    `json:"email"      gorm:"column:email;not null;unique"`
	PasswordHash string    `json:"-"          gorm:"column:password_hash;not null"`
	VerifyToken  string    `json:"-"          gorm:"column:verify_token"`
	Verified     bool      `json:"verified"   gorm:"column:verified;not null;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "customers" }

type RegisterRequest struct {
	Email    string
	Password string
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
