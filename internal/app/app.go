package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/ProfileApp/internal/config"
	"github.com/GoArmGo/ProfileApp/internal/core/ports"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// Closer — ресурс, который нужно освободить при остановке (БД, RabbitMQ).
type Closer struct {
	Name  string
	Close func() error
}

type App struct {
	Config        *config.Config
	logger        *slog.Logger
	router        http.Handler
	eventConsumer ports.UserEventConsumer
	closers       []Closer
}

// NewApp собирает приложение. eventConsumer может быть nil, если RabbitMQ не настроен.
func NewApp(cfg *config.Config,
	logger *slog.Logger,
	router http.Handler,
	eventConsumer ports.UserEventConsumer,
	closers []Closer) *App {
	return &App{
		Config:        cfg,
		logger:        logger,
		router:        router,
		eventConsumer: eventConsumer,
		closers:       closers,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает выбранный режим и блокируется до SIGINT/SIGTERM или отмены ctx.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.router, a.logger)
	case ModeWorker:
		if a.eventConsumer == nil {
			err = errors.New("worker mode requires RABBITMQ_URL")
			break
		}
		err = runWorker(ctx, a.eventConsumer, a.logger)
	default:
		err = fmt.Errorf("unknown mode: %s (use '%s' or '%s')", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения в обратном порядке.
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name, err))
			continue
		}
		a.logger.Info("resource closed", "resource", c.Name)
	}
	a.closers = nil
	return errors.Join(errs...)
}
