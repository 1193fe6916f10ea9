package db

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx"
	"github.com/jackc/pgx/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies goose migrations found in dir of fsys to the database at dsn.
func Migrate(ctx context.Context, dsn string, fsys fs.FS, dir string) error {
	config, err := pgx.ParseConnectionString(dsn)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}

	sqldb := stdlib.OpenDB(config)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqldb, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
