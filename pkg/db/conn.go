package db

import (
	"database/sql"
	"fmt"
)

const (
	// DriverSQLite is the default: a single embedded database file, no
	// server process. DriverPostgres is kept for deployments that outgrow
	// the single-file model.
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver   string `env:"DRIVER"`
	Path     string `env:"PATH"` // sqlite database file
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`
}

// sqliteDSNOptions makes every transaction take the write lock at BEGIN
// instead of on the first write. Without it, two settles of the same order
// both read AUTHORIZED on pooled connections and the loser dies with
// SQLITE_BUSY mid-transaction; with it the loser blocks at BEGIN, then
// reads SETTLED and fails the status check.
const sqliteDSNOptions = "?_txlock=immediate&_busy_timeout=5000"

func (c Config) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.Host, c.User, c.Password, c.Database, c.Port)
	}
	path := c.Path
	if path == "" {
		path = "order_gateway.db"
	}
	return "file:" + path + sqliteDSNOptions
}

func newSqlConnection(config Config) (*sql.DB, error) {
	if config.Driver == DriverPostgres {
		return sql.Open("postgres", config.DSN())
	}
	return sql.Open("sqlite3", config.DSN())
}
