package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/paykit/order-gateway/internal/config"
	"github.com/paykit/order-gateway/internal/gateway"
	"github.com/paykit/order-gateway/internal/handlers"
	"github.com/paykit/order-gateway/internal/notify"
	"github.com/paykit/order-gateway/internal/repository"
	"github.com/paykit/order-gateway/internal/services"
	"github.com/paykit/order-gateway/pkg/db"
	xhttp "github.com/paykit/order-gateway/pkg/http"
	"github.com/paykit/order-gateway/pkg/logger"
	"github.com/paykit/order-gateway/pkg/prom"
	"github.com/paykit/order-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	dbConf := db.Config{
		Driver:   config.Get().DBDriver,
		Path:     config.Get().DBPath,
		User:     config.Get().DBUser,
		Host:     config.Get().DBHost,
		Port:     config.Get().DBPort,
		Password: config.Get().DBPassword,
		Database: config.Get().DBName,
	}

	dbDebug := false
	if config.Get().AppEnv == "dev" {
		dbDebug = true
	}

	if config.Get().DBAutoMigrate {
		if err := db.Migrate(dbConf, config.Get().MigrationsDir); err != nil {
			logger.Error("failed running migrations", "error", err)
			return
		}
	}

	database, err := db.Open(dbConf, dbDebug)
	if err != nil {
		logger.Error("failed connecting to db", "error", err)
		return
	}

	// the verification email queue is optional: without redis the API
	// still runs, registrations just respond with a warning
	var publisher notify.Publisher
	if config.Get().RedisAddr != "" {
		redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{config.Get().RedisAddr},
			ClientName: "default",
			DB:         config.Get().RedisDatabase,
			Username:   config.Get().RedisUsername,
			Password:   config.Get().RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}

		q, err := notify.NewQueue(redisAdap, notify.QueueConfig{
			Name:          config.Get().NotifyQueueName,
			ConsumerGroup: config.Get().NotifyConsumerGroup,
			ConsumerName:  config.Get().NotifyConsumerName,
			PollInterval:  config.Get().NotifyPollInterval,
			BatchSize:     config.Get().NotifyBatchSize,
			MaxLen:        config.Get().NotifyQueueMaxLen,
		})
		if err != nil {
			logger.Error("failed creating notify queue", "error", err)
			return
		}
		publisher = q
	}

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	if config.Get().AppDebugMetricsAddr != "" {
		go func() {
			prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}()
	}

	orderRepo := repository.NewOrderRepository(database)
	authRepo := repository.NewAuthorizationRepository(database)
	settlementRepo := repository.NewSettlementRepository(database)
	customerRepo := repository.NewCustomerRepository(database)

	// services
	authorizer := gateway.NewMockGateway()
	paymentService := services.NewPaymentService(orderRepo, authRepo, settlementRepo, authorizer)
	orderService := services.NewOrderService(orderRepo, authRepo, settlementRepo)
	customerService := services.NewCustomerService(customerRepo, publisher)
	healthService := services.NewHealthService()

	// handlers
	orderHandler := handlers.NewOrderHandler(paymentService, orderService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	healthHandler := handlers.NewHealthHandler(healthService)

	handlers.RegisterOrderRoutes(s.Router, orderHandler)
	handlers.RegisterCustomerRoutes(s.Router, customerHandler)
	handlers.RegisterHealthRoutes(s.Router, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
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
	return ""
}
