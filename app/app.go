package app

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/database"
	"github.com/tech-arch1tect/greenpoll/handlers"
	"github.com/tech-arch1tect/greenpoll/internal/options"
	"github.com/tech-arch1tect/greenpoll/middleware/ratelimit"
	"github.com/tech-arch1tect/greenpoll/models"
	"github.com/tech-arch1tect/greenpoll/server"
	"github.com/tech-arch1tect/greenpoll/services/auth"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/services/mail"
	"github.com/tech-arch1tect/greenpoll/services/poll"
	"github.com/tech-arch1tect/greenpoll/services/scheduler"
	"github.com/tech-arch1tect/greenpoll/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const stopTimeout = 30 * time.Second

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
	db     *gorm.DB
	server *server.Server
}

// New assembles the application. Nothing is started until Start or Run.
func New(opts ...options.Option) (*App, error) {
	o := options.Defaults()
	for _, opt := range opts {
		opt(o)
	}

	app := &App{}

	fxOptions := []fx.Option{
		fx.NopLogger,
		config.NewProvider(o.Config),
		logging.Module,
		fx.Supply(database.WithModels(models.All()...)),
		database.Module,
		mail.Module,
		session.Module,
		auth.Module,
		poll.Module,
		ratelimit.Module,
		scheduler.Module,
		server.Module,
		handlers.Module,
	}
	if o.Listen {
		fxOptions = append(fxOptions, server.Listener)
	}
	fxOptions = append(fxOptions, o.ExtraFxOptions...)
	fxOptions = append(fxOptions, fx.Populate(&app.config, &app.logger, &app.db, &app.server))

	app.fx = fx.New(fxOptions...)
	if err := app.fx.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}

	return app, nil
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the application and blocks until SIGINT, SIGTERM or an
// internal shutdown request.
func (a *App) Run() error {
	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	sig := <-a.fx.Wait()
	reason := "shutdown requested"
	if sig.Signal != nil {
		reason = sig.Signal.String()
	}
	a.logger.Info("shutting down", zap.String("reason", reason), zap.Int("exit_code", sig.ExitCode))

	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()
	if err := a.Stop(stopCtx); err != nil {
		a.logger.Error("failed to stop application gracefully", zap.Error(err))
		return err
	}

	if sig.ExitCode != 0 {
		return fmt.Errorf("application exited with code %d", sig.ExitCode)
	}
	return nil
}

func (a *App) Server() *server.Server {
	return a.server
}

func (a *App) Echo() *echo.Echo {
	if a.server == nil {
		return nil
	}
	return a.server.Echo()
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.config
}
