package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/paykit/order-gateway/internal/config"
	"github.com/paykit/order-gateway/internal/notify"
	"github.com/paykit/order-gateway/pkg/logger"
	"github.com/paykit/order-gateway/pkg/prom"
	"github.com/paykit/order-gateway/pkg/redis"
	"github.com/paykit/order-gateway/pkg/worker"
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

	mailer := notify.NewLogMailer(config.Get().VerificationBaseURL)

	poolSize := config.Get().NotifyWorkerPoolSize
	wm := worker.NewWorkerManager(poolSize*4, poolSize, nil)
	wm.SetWorker(func(workerIndex int, job interface{}) {
		msg, ok := job.(*notify.Message)
		if !ok {
			return
		}
		if err := mailer.Send(context.Background(), msg.Event); err != nil {
			logger.Error("failed sending email", "message_id", msg.ID, "error", err)
		}
	})

	// emails are best-effort: messages are acked on dequeue and the send
	// itself is fanned out over the pool
	err = q.Consume(func(ctx context.Context, msg *notify.Message) error {
		wm.Enqueue(msg)
		return nil
	})
	if err != nil {
		logger.Error("failed to start consuming", "error", err)
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := wm.Start(); err != nil {
			logger.Info("worker pool stopped", "reason", err)
		}
	}()

	select {
	case <-c:
		q.Stop()
		wm.Exit()
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
