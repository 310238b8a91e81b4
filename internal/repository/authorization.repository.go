package repository

import (
	"context"
	"errors"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/pkg/db"
	"gorm.io/gorm"
)

// AuthorizationRepository is an append-only log of authorization attempts.
// Rows are never updated or deleted.
type AuthorizationRepository struct {
	*db.DB
}

func NewAuthorizationRepository(database *db.DB) *AuthorizationRepository {
	return &AuthorizationRepository{
		database,
	}
}

func (r *AuthorizationRepository) Create(ctx context.Context, auth *model.Authorization) (*model.Authorization, error) {
	entity := toAuthorizationEntity(auth)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toAuthorizationModel(entity), nil
}

// LatestByOrder returns the most recent attempt for the order: greatest
// created_at, ties broken by auth_id. Returns (nil, nil) when the order has
// no authorization trail.
func (r *AuthorizationRepository) LatestByOrder(ctx context.Context, orderID string) (*model.Authorization, error) {
	var entity AuthorizationEntity
	err := r.Read(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, auth_id DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toAuthorizationModel(&entity), nil
}

// CountByOrder reports how many attempts have been logged for the order.
func (r *AuthorizationRepository) CountByOrder(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.Read(ctx).
		Model(&AuthorizationEntity{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}
