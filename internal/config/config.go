package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/paykit/order-gateway/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every configuration value used by the service. Only this
// struct may be consulted for configuration; no direct reads of env, ini
// or any other config source elsewhere.
type Config struct {
	AppEnv              string `env:"APP_ENV" default:"dev"`
	AppName             string `env:"APP_NAME" default:"order_gateway"`
	AppDebug            bool   `env:"APP_DEBUG" default:"1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr         string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`
	HttpServerReadTimeout  int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`

	DBDriver      string `env:"DB_DRIVER" default:"sqlite"`
	DBPath        string `env:"DB_PATH" default:"order_gateway.db"`
	DBHost        string `env:"DB_HOST"`
	DBPort        string `env:"DB_PORT"`
	DBUser        string `env:"DB_USER"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_DBNAME"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE"`
	MigrationsDir string `env:"MIGRATIONS_DIR" default:"./migrations"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	NotifyQueueName      string        `env:"NOTIFY_QUEUE_NAME" default:"notifications:email"`
	NotifyConsumerGroup  string        `env:"NOTIFY_CONSUMER_GROUP" default:"notifier"`
	NotifyConsumerName   string        `env:"NOTIFY_CONSUMER_NAME"`
	NotifyPollInterval   time.Duration `env:"NOTIFY_POLL_INTERVAL"`
	NotifyBatchSize      int64         `env:"NOTIFY_BATCH_SIZE"`
	NotifyQueueMaxLen    int64         `env:"NOTIFY_QUEUE_MAX_LEN"`
	NotifyWorkerPoolSize int           `env:"NOTIFY_WORKER_POOL_SIZE" default:"4"`

	VerificationBaseURL string `env:"VERIFICATION_BASE_URL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
