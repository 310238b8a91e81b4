package repository

import (
	"context"
	"errors"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/pkg/db"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrBadVerifyToken   = errors.New("verification token does not match")
)

type CustomerRepository struct {
	*db.DB
}

func NewCustomerRepository(database *db.DB) *CustomerRepository {
	return &CustomerRepository{
		database,
	}
}

// Create inserts the customer. The unique index on email is the single
// authority on duplicates, so two concurrent registrations cannot both pass
// a pre-check; the loser's constraint violation maps to ErrDuplicateEmail.
func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(customer)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).
		Where("email = ?", email).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// Verify marks the customer verified when the token matches, and clears the
// token so it cannot be replayed.
func (r *CustomerRepository) Verify(ctx context.Context, email, token string) error {
	customer, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if customer.VerifyToken == "" || customer.VerifyToken != token {
		return ErrBadVerifyToken
	}

	return r.Write(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"verified":     true,
			"verify_token": "",
		}).Error
}
