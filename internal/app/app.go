package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-pg/pg/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/newsroom/config"
	"github.com/daniilsolovey/newsroom/internal/auth"
	"github.com/daniilsolovey/newsroom/internal/cache"
	"github.com/daniilsolovey/newsroom/internal/db"
	"github.com/daniilsolovey/newsroom/internal/mail"
	"github.com/daniilsolovey/newsroom/internal/newsportal"
	"github.com/daniilsolovey/newsroom/internal/rest"
	"github.com/daniilsolovey/newsroom/internal/rpc"
	"github.com/daniilsolovey/newsroom/internal/upload"
)

const rpcPath = "/v1/rpc/"

type App struct {
	DB      *db.Repository
	Redis   *redis.Client
	Logger  *slog.Logger
	Echo    *echo.Echo
	RPC     *zenrpc.Server
	Manager *newsportal.Manager
	Cron    *cron.Cron
	Config  config.Config
}

func New(cfg config.Config, dbConnect *pg.DB, logger *slog.Logger) *App {
	repo := db.New(dbConnect)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisCache := cache.New(redisClient)

	// mail is optional, a nil Notifier skips notifications
	var notifier newsportal.Notifier
	if cfg.SMTP.Host != "" {
		notifier = mail.NewNotifier(cfg.SMTP)
	}

	manager := newsportal.NewManager(repo, redisCache, upload.NewImages(cfg.App.UploadDir), notifier, logger)
	accounts := auth.NewService(repo, redisCache, cfg.Auth.Secret, cfg.Auth.TokenTTL)

	rpcServer := rpc.New(logger, manager)

	e := rest.NewNewsHandler(manager, accounts, logger).RegisterRoutes(cfg.App.UploadDir)
	e.Any(rpcPath, echo.WrapHandler(rpcServer))

	return &App{
		DB:      repo,
		Redis:   redisClient,
		Logger:  logger,
		Echo:    e,
		RPC:     rpcServer,
		Manager: manager,
		Cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Config:  cfg,
	}
}

// Run schedules the homepage warm job and starts the HTTP server. It blocks until the server stops.
func (a *App) Run(ctx context.Context) error {
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		a.Logger.WarnContext(ctx, "redis is unavailable, homepage cache disabled until it is back", "error", err)
	}

	if _, err := a.Cron.AddFunc(a.Config.Cron.WarmSchedule, func() { a.warmIndex(ctx) }); err != nil {
		return fmt.Errorf("schedule homepage warm job: %w", err)
	}
	a.Cron.Start()

	addr := fmt.Sprintf("%s:%d", a.Config.App.Host, a.Config.App.Port)
	a.Logger.InfoContext(ctx, "starting server", "addr", addr)

	return a.Echo.Start(addr)
}

func (a *App) warmIndex(ctx context.Context) {
	if _, err := a.Manager.WarmIndex(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "homepage warm failed", "error", err)
		return
	}

	a.Logger.DebugContext(ctx, "homepage warmed")
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	var errs []error

	if err := a.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}

	select {
	case <-a.Cron.Stop().Done():
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("stop cron: %w", ctx.Err()))
	}

	if err := a.Redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}

	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}

	return errors.Join(errs...)
}
