package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	FileStorageDisk = "disk"
	FileStorageS3   = "s3"
)

// Config хранит все конфигурационные параметры приложения.
// Читается один раз при старте и передаётся компонентам явно.
type Config struct {
	DatabaseURL    string `env:"DBURL,required"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"mongo"`
	DatabaseName   string `env:"DB_NAME" envDefault:"test"`

	SecretKey  string        `env:"SECRETKEY,required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"0s"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"5"`

	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	FileStorage string `env:"FILE_STORAGE" envDefault:"disk"`
	StorageDir  string `env:"STORAGE_DIR" envDefault:"storage"`

	// Настройки для MinIO (нужны только при FILE_STORAGE=s3)
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`

	// RabbitMQ опционален: пустой URL отключает публикацию событий
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"user_events_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "3001"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет взаимозависимые параметры.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMongo, DriverPostgres:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q (use %q or %q)", c.DatabaseDriver, DriverMongo, DriverPostgres)
	}

	switch c.FileStorage {
	case FileStorageDisk:
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR must be set when FILE_STORAGE=%s", FileStorageDisk)
		}
	case FileStorageS3:
		if c.MinioEndpoint == "" || c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "" || c.MinioBucketName == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, MINIO_BUCKET_NAME must be set when FILE_STORAGE=%s", FileStorageS3)
		}
	default:
		return fmt.Errorf("unknown FILE_STORAGE %q (use %q or %q)", c.FileStorage, FileStorageDisk, FileStorageS3)
	}

	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must not be negative")
	}

	return nil
}

// EventsEnabled сообщает, настроена ли публикация событий в RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}
