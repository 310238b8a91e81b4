package main

import (
	"os"
	"strings"

	"github.com/paykit/order-gateway/internal/config"
	"github.com/paykit/order-gateway/pkg/db"
	"github.com/paykit/order-gateway/pkg/logger"
)

func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
	}
	// main.go --dir=./migrations
	dbConf := db.Config{
		Driver:   config.Get().DBDriver,
		Path:     config.Get().DBPath,
		User:     config.Get().DBUser,
		Host:     config.Get().DBHost,
		Port:     config.Get().DBPort,
		Password: config.Get().DBPassword,
		Database: config.Get().DBName,
	}
	err = db.Migrate(dbConf, getMigrationPath())
	if err != nil {
		logger.Error("migration: error running migrations", "error", err)
	}
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open(".env"); err != nil {
		return ""
	}
	return ".env"
}

func getMigrationPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--dir=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed migrations dir, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return config.Get().MigrationsDir
}
