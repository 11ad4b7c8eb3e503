package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"carprice/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Artifacts     ArtifactsConfig
	Currency      CurrencyConfig
	Training      TrainingConfig
	Vision        VisionConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	RateLimit     RateLimitConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"carprice"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type ServerConfig struct {
	Port         int           `envconfig:"SERVER_PORT" default:"5000"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	// Image feature extraction can take seconds per request, so the
	// write timeout stays well above typical API defaults.
	MaxUploadBytes int64 `envconfig:"SERVER_MAX_UPLOAD_BYTES" default:"10485760"`
}

type ArtifactsConfig struct {
	Dir string `envconfig:"ARTIFACTS_DIR" default:"models"`
}

// CurrencyConfig controls the unit predictions are expressed in.
// Dataset prices are USD; the rate converts them once at training time.
type CurrencyConfig struct {
	Symbol string  `envconfig:"CURRENCY_SYMBOL" default:"₹"`
	Rate   float64 `envconfig:"CURRENCY_RATE" default:"83"`
}

type TrainingConfig struct {
	DatasetPath  string  `envconfig:"TRAINING_DATASET_PATH" default:"Dataset/used_cars.csv"`
	Seed         int64   `envconfig:"TRAINING_SEED" default:"42"`
	TestSize     float64 `envconfig:"TRAINING_TEST_SIZE" default:"0.2"`
	ForestTrees  int     `envconfig:"TRAINING_FOREST_TREES" default:"200"`
	ForestDepth  int     `envconfig:"TRAINING_FOREST_DEPTH" default:"15"`
	KNNNeighbors int     `envconfig:"TRAINING_KNN_NEIGHBORS" default:"5"`
}

// VisionConfig points at the ONNX image classifier used for the image
// prediction path. When ModelPath is empty /predict_image is disabled.
type VisionConfig struct {
	ModelPath  string `envconfig:"VISION_MODEL_PATH"`
	InputName  string `envconfig:"VISION_INPUT_NAME" default:"input"`
	OutputName string `envconfig:"VISION_OUTPUT_NAME" default:"output"`
	OutputSize int    `envconfig:"VISION_OUTPUT_SIZE" default:"1000"`
}

type PostgresConfig struct {
	Enabled  bool   `envconfig:"POSTGRES_ENABLED" default:"false"`
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"carprice"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"carprice"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"10m"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RateLimitConfig struct {
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"40"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
