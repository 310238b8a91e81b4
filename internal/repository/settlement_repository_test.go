package repository

import (
	"context"
	"testing"
	"time"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementRepository_Create(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettlementRepository(database)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Settlement{
		OrderID: "ORD1",
		Amount:  49.5,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.SettlementID)
	assert.NotZero(t, created.SettledAt)
	assert.Equal(t, 49.5, created.Amount)
}

func TestSettlementRepository_LatestByOrder(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettlementRepository(database)
	ctx := context.Background()

	t.Run("never settled", func(t *testing.T) {
		latest, err := repo.LatestByOrder(ctx, "ORD1")
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("latest settlement", func(t *testing.T) {
		for _, amount := range []float64{10, 20} {
			_, err := repo.Create(ctx, &model.Settlement{OrderID: "ORD1", Amount: amount})
			require.NoError(t, err)
			time.Sleep(10 * time.Millisecond)
		}

		latest, err := repo.LatestByOrder(ctx, "ORD1")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 20.0, latest.Amount)
	})
}

func TestSettlementRepository_TotalAmount(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettlementRepository(database)
	ctx := context.Background()

	t.Run("empty table sums to zero", func(t *testing.T) {
		total, err := repo.TotalAmount(ctx)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("sums across orders", func(t *testing.T) {
		seed := []model.Settlement{
			{OrderID: "ORD1", Amount: 50},
			{OrderID: "ORD2", Amount: 25.5},
			{OrderID: "ORD2", Amount: 4.5},
		}
		for i := range seed {
			_, err := repo.Create(ctx, &seed[i])
			require.NoError(t, err)
		}

		total, err := repo.TotalAmount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 80.0, total)
	})
}
