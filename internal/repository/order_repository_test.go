package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_Upsert(t *testing.T) {
	database := setupTestDB(t)
	repo := NewOrderRepository(database)
	ctx := context.Background()

	t.Run("insert new order", func(t *testing.T) {
		created, err := repo.Upsert(ctx, &model.Order{
			OrderID:     "ORD1",
			CustomerID:  1,
			Status:      model.OrderStatusAuthorized,
			TotalAmount: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, "ORD1", created.OrderID)
		assert.Equal(t, model.OrderStatusAuthorized, created.Status)
		assert.NotZero(t, created.CreatedAt)
	})

	t.Run("same order id overwrites instead of duplicating", func(t *testing.T) {
		first, err := repo.Upsert(ctx, &model.Order{
			OrderID:     "ORD2",
			CustomerID:  1,
			Status:      model.OrderStatusDeclined,
			TotalAmount: 10,
		})
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, &model.Order{
			OrderID:     "ORD2",
			CustomerID:  2,
			Status:      model.OrderStatusAuthorized,
			TotalAmount: 75,
		})
		require.NoError(t, err)

		got, err := repo.Get(ctx, "ORD2")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.CustomerID)
		assert.Equal(t, model.OrderStatusAuthorized, got.Status)
		assert.Equal(t, 75.0, got.TotalAmount)
		assert.Equal(t, first.CreatedAt.Unix(), got.CreatedAt.Unix())

		var count int64
		require.NoError(t, database.Read(ctx).Model(&OrderEntity{}).Where("order_id = ?", "ORD2").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestOrderRepository_Get(t *testing.T) {
	database := setupTestDB(t)
	repo := NewOrderRepository(database)
	ctx := context.Background()

	t.Run("unknown order", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("get for update on unknown order", func(t *testing.T) {
		_, err := repo.GetForUpdate(ctx, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	database := setupTestDB(t)
	repo := NewOrderRepository(database)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &model.Order{
		OrderID:     "ORD1",
		CustomerID:  1,
		Status:      model.OrderStatusAuthorized,
		TotalAmount: 50,
	})
	require.NoError(t, err)

	t.Run("status flip refreshes updated_at", func(t *testing.T) {
		before, err := repo.Get(ctx, "ORD1")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, repo.UpdateStatus(ctx, "ORD1", model.OrderStatusSettled))

		after, err := repo.Get(ctx, "ORD1")
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusSettled, after.Status)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("unknown order", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, "missing", model.OrderStatusSettled)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderRepository_List(t *testing.T) {
	database := setupTestDB(t)
	repo := NewOrderRepository(database)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Upsert(ctx, &model.Order{
			OrderID:     fmt.Sprintf("ORD%d", i),
			CustomerID:  1,
			Status:      model.OrderStatusPending,
			TotalAmount: 10,
		})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	t.Run("newest first", func(t *testing.T) {
		orders, err := repo.List(ctx, model.OrderFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, orders, 5)
		assert.Equal(t, "ORD4", orders[0].OrderID)
		assert.Equal(t, "ORD0", orders[4].OrderID)
	})

	t.Run("pagination", func(t *testing.T) {
		orders, err := repo.List(ctx, model.OrderFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "ORD2", orders[0].OrderID)
	})

	t.Run("default limit applies when zero", func(t *testing.T) {
		orders, err := repo.List(ctx, model.OrderFilter{})
		require.NoError(t, err)
		assert.Len(t, orders, 5)
	})

	t.Run("recent picks the newest n", func(t *testing.T) {
		orders, err := repo.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "ORD4", orders[0].OrderID)
		assert.Equal(t, "ORD3", orders[1].OrderID)
	})

	t.Run("created_at ties break by insertion order", func(t *testing.T) {
		// ids chosen so lexicographic order disagrees with insertion order
		ts := time.Now().Add(time.Hour)
		for _, id := range []string{"TIE-Z", "TIE-A"} {
			_, err := repo.Upsert(ctx, &model.Order{
				OrderID:     id,
				CustomerID:  1,
				Status:      model.OrderStatusPending,
				TotalAmount: 10,
				CreatedAt:   ts,
			})
			require.NoError(t, err)
		}

		orders, err := repo.List(ctx, model.OrderFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "TIE-A", orders[0].OrderID)
		assert.Equal(t, "TIE-Z", orders[1].OrderID)
	})
}

func TestOrderRepository_CountByStatus(t *testing.T) {
	database := setupTestDB(t)
	repo := NewOrderRepository(database)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("grouped counts", func(t *testing.T) {
		seed := []model.OrderStatus{
			model.OrderStatusAuthorized,
			model.OrderStatusAuthorized,
			model.OrderStatusDeclined,
			model.OrderStatusSettled,
		}
		for i, status := range seed {
			_, err := repo.Upsert(ctx, &model.Order{
				OrderID:     fmt.Sprintf("ORD%d", i),
				CustomerID:  1,
				Status:      status,
				TotalAmount: 10,
			})
			require.NoError(t, err)
		}

		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[model.OrderStatusAuthorized])
		assert.Equal(t, int64(1), counts[model.OrderStatusDeclined])
		assert.Equal(t, int64(1), counts[model.OrderStatusSettled])
		assert.Zero(t, counts[model.OrderStatusPending])
	})
}
