package db

import (
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/paykit/order-gateway/pkg/logger"
	"github.com/pressly/goose/v3"
)

// Migrate applies the versioned goose migrations in dir exactly once per
// schema version. Schema changes never happen implicitly at query time.
func Migrate(cfg Config, dir string) error {
	dialect := "sqlite3"
	if cfg.Driver == DriverPostgres {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		logger.Fatal(err)
	}

	conn, err := newSqlConnection(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err = goose.Up(conn, dir); err != nil {
		logger.Fatal(err)
	}

	return nil
}
