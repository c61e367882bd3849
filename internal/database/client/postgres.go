package client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/config"
	"github.com/GoArmGo/ProfileApp/internal/database/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresClient представляет клиент для взаимодействия с PostgreSQL
type PostgresClient struct {
	DB     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresClient открывает подключение к PostgreSQL и применяет миграции
func NewPostgresClient(cfg *config.Config, logger *slog.Logger) (*PostgresClient, error) {
	start := time.Now()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := postgres.ApplyMigrations(cfg.DatabaseURL, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &PostgresClient{DB: db, logger: logger}, nil
}

func (c *PostgresClient) Close() error {
	start := time.Now()
	if err := c.DB.Close(); err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
