package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ProfileApp/internal/adapter/storage/disk"
	"github.com/GoArmGo/ProfileApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/ProfileApp/internal/app"
	"github.com/GoArmGo/ProfileApp/internal/auth"
	"github.com/GoArmGo/ProfileApp/internal/config"
	"github.com/GoArmGo/ProfileApp/internal/core/ports"
	"github.com/GoArmGo/ProfileApp/internal/database/client"
	"github.com/GoArmGo/ProfileApp/internal/database/storage"
	"github.com/GoArmGo/ProfileApp/internal/handler"
	"github.com/GoArmGo/ProfileApp/internal/logger"
	"github.com/GoArmGo/ProfileApp/internal/rabbitmq"
	"github.com/GoArmGo/ProfileApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// При ошибке уже открытые ресурсы закрываются.
func BuildApp(ctx context.Context) (_ *app.App, err error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []app.Closer
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i].Close()
			}
		}
	}()

	// 2. Хранилище пользователей
	userStorage, closer, err := buildUserStorage(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, closer)

	// 3. Файловое хранилище
	fileStorage, err := buildFileStorage(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 4. RabbitMQ (опционально)
	var (
		publisher ports.UserEventPublisher
		consumer  ports.UserEventConsumer
	)
	if cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, app.Closer{Name: "rabbitmq", Close: rabbitMQClient.Close})
		publisher = rabbitMQClient
		consumer = rabbitMQClient
	} else {
		slogger.Info("RABBITMQ_URL not set, user events disabled")
	}

	// 5. Бизнес-логика и HTTP
	tokens := auth.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)
	userUseCase := usecase.NewUserUseCase(
		userStorage,
		fileStorage,
		auth.NewPasswordHasher(cfg.BcryptCost),
		tokens,
		publisher,
		slogger,
	)
	userHandler := handler.NewUserHandler(userUseCase, fileStorage, slogger)
	router := handler.NewRouter(userHandler, tokens, cfg.RequestTimeout, slogger)

	application := app.NewApp(cfg, slogger, router, consumer, closers)

	slogger.Info("all dependencies initialized",
		"database_driver", cfg.DatabaseDriver,
		"file_storage", cfg.FileStorage,
		"events", cfg.EventsEnabled(),
	)
	return application, nil
}

func buildUserStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.UserStorage, app.Closer, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pg, err := client.NewPostgresClient(cfg, logger)
		if err != nil {
			return nil, app.Closer{}, err
		}
		return storage.NewPostgresUserStorage(pg.DB, logger), app.Closer{Name: "postgres", Close: pg.Close}, nil
	case config.DriverMongo:
		mc, err := client.NewMongoClient(ctx, cfg, logger)
		if err != nil {
			return nil, app.Closer{}, err
		}
		return storage.NewMongoUserStorage(mc.DB, logger), app.Closer{Name: "mongo", Close: mc.Close}, nil
	default:
		return nil, app.Closer{}, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
}

func buildFileStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStorage, error) {
	switch cfg.FileStorage {
	case config.FileStorageS3:
		return minio.NewMinioClient(ctx, cfg, logger)
	case config.FileStorageDisk:
		return disk.NewDiskClient(cfg.StorageDir, logger)
	default:
		return nil, fmt.Errorf("unknown FILE_STORAGE %q", cfg.FileStorage)
	}
}
