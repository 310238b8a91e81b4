package repository

import (
	"context"
	"testing"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository_Create(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCustomerRepository(database)
	ctx := context.Background()

	t.Run("create customer", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.Customer{
			Email:        "a@example.com",
			PasswordHash: "hash",
			VerifyToken:  "tok",
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.Verified)
	})

	t.Run("duplicate email rejected by the unique index", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.Customer{
			Email:        "a@example.com",
			PasswordHash: "other-hash",
		})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		var count int64
		err = repo.Read(ctx).Model(&CustomerEntity{}).Where("email = ?", "a@example.com").Count(&count).Error
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestCustomerRepository_Verify(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCustomerRepository(database)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Customer{
		Email:        "a@example.com",
		PasswordHash: "hash",
		VerifyToken:  "tok",
	})
	require.NoError(t, err)

	t.Run("wrong token", func(t *testing.T) {
		err := repo.Verify(ctx, "a@example.com", "nope")
		assert.ErrorIs(t, err, ErrBadVerifyToken)
	})

	t.Run("unknown email", func(t *testing.T) {
		err := repo.Verify(ctx, "b@example.com", "tok")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("token verifies once", func(t *testing.T) {
		require.NoError(t, repo.Verify(ctx, "a@example.com", "tok"))

		customer, err := repo.GetByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.True(t, customer.Verified)
		assert.Empty(t, customer.VerifyToken)

		// token was cleared, replay fails
		err = repo.Verify(ctx, "a@example.com", "tok")
		assert.ErrorIs(t, err, ErrBadVerifyToken)
	})
}
