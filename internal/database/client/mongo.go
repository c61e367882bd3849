package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// MongoClient держит подключение к MongoDB и выбранную базу
type MongoClient struct {
	Client *mongo.Client
	DB     *mongo.Database
	logger *slog.Logger
}

// NewMongoClient подключается к MongoDB по DBURL и проверяет соединение ping'ом
func NewMongoClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MongoClient, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DatabaseURL))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("failed to ping MongoDB", "error", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("MongoDB connection established successfully",
		"database", cfg.DatabaseName,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &MongoClient{Client: client, DB: client.Database(cfg.DatabaseName), logger: logger}, nil
}

func (c *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := c.Client.Disconnect(ctx); err != nil {
		c.logger.Error("failed to disconnect from MongoDB", "error", err)
		return err
	}
	c.logger.Info("MongoDB disconnected")
	return nil
}
