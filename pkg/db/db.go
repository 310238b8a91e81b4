package db

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type txContextKey string

const txKey txContextKey = "trx"

// DB wraps a gorm handle and carries transactions through the context so
// repositories can share one transaction scope without knowing about each
// other.
type DB struct {
	conn *gorm.DB
}

func Create(config Config, withDebug bool) (*gorm.DB, error) {
	dial, err := config.Dialector()
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dial, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if withDebug {
		conn = conn.Debug()
	}
	return conn, nil
}

func Open(config Config, withDebug bool) (*DB, error) {
	conn, err := Create(config, withDebug)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

func New(conn *gorm.DB) *DB {
	return &DB{conn: conn}
}

// WithinTransaction runs fn inside a single database transaction. Every
// repository call made through the returned context joins that transaction;
// any error rolls the whole unit back.
func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return r.conn.WithContext(ctx)
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return r.conn.WithContext(ctx)
}

func (c Config) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverSQLite, "":
		return sqlite.Open(c.DSN()), nil
	case DriverPostgres:
		return postgres.Open(c.DSN()), nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", c.Driver)
	}
}
