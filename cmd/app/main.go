package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/joho/godotenv"
	"github.com/namsral/flag"

	"github.com/daniilsolovey/newsroom/config"
	"github.com/daniilsolovey/newsroom/docs"
	"github.com/daniilsolovey/newsroom/internal/app"
	"github.com/daniilsolovey/newsroom/internal/db"
)

var (
	flConfig        = flag.String("config", "config.toml", "path to TOML configuration file")
	flDebug         = flag.Bool("debug", false, "enable debug mode")
	flMigrate       = flag.Bool("migrate", false, "apply database migrations before start")
	flDatabaseURL   = flag.String("database-url", "", "database connection URL, overrides [Database] (DATABASE_URL)")
	flDBMaxConns    = flag.Int("db-max-conns", 5, "maximum number of database connections (DB_MAX_CONNS)")
	flDBMaxConnLife = flag.String("db-max-conn-lifetime", "300s", "maximum lifetime of database connection (DB_MAX_CONN_LIFETIME)")
	cfg             config.Config
	lg              *slog.Logger
)

// @title Newsroom API
// @version 1.0
// @description News site with a filterable archive, homepage, comments and an editor area
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// .env is optional, values from it are visible to flags as environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	flag.Parse()

	lg = newLogger(*flDebug)

	var err error
	cfg, err = config.Load(*flConfig)
	exitOnError(err)

	if *flDatabaseURL != "" {
		exitOnError(cfg.ApplyDatabaseURL(*flDatabaseURL, *flDBMaxConns, *flDBMaxConnLife))
	}

	ctx := context.Background()

	if *flMigrate {
		exitOnError(db.Migrate(ctx, cfg.DSN(), docs.Patches, docs.PatchesDir))
		lg.Info("migrations applied")
	}

	dbc := pg.Connect(&cfg.Database)
	if cfg.App.LogQueries {
		dbc.AddQueryHook(db.NewQueryHook(lg))
		lg.Info("SQL query logging enabled")
	}
	if err := dbc.Ping(ctx); err != nil {
		dbc.Close()
		exitOnError(err)
	}

	service := app.New(cfg, dbc, lg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		err := service.Run(ctx)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("service run failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	lg.Info("service stopping")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = service.GracefulShutdown(shutdownCtx)
	if err != nil {
		lg.Error("service graceful shutdown failed", "error", err)
	}
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("app init failed", "error", err)
		os.Exit(1)
	}
}
