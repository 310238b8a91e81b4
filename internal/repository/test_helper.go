package repository

import (
	"testing"

	"github.com/paykit/order-gateway/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *db.DB {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = conn.AutoMigrate(&CustomerEntity{}, &OrderEntity{}, &AuthorizationEntity{}, &SettlementEntity{})
	require.NoError(t, err)

	return db.New(conn)
}
