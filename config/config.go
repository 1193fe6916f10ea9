package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-pg/pg/v10"

	"github.com/daniilsolovey/newsroom/internal/mail"
)

const (
	DefaultPort         = 3000
	DefaultUploadDir    = "uploads"
	DefaultTokenTTL     = 24 * time.Hour
	DefaultWarmSchedule = "@every 1m"
	DefaultMaxRetries   = 3
)

type Config struct {
	Database pg.Options
	App      struct {
		Host       string
		Port       int
		UploadDir  string
		LogQueries bool
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Auth struct {
		Secret   string
		TokenTTL time.Duration
	}
	SMTP mail.Config
	Cron struct {
		WarmSchedule string
	}
}

// Load decodes the TOML file at path and fills unset values with defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.App.Port == 0 {
		c.App.Port = DefaultPort
	}
	if c.App.UploadDir == "" {
		c.App.UploadDir = DefaultUploadDir
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = DefaultTokenTTL
	}
	if c.Cron.WarmSchedule == "" {
		c.Cron.WarmSchedule = DefaultWarmSchedule
	}
	if c.Database.MaxRetries == 0 {
		c.Database.MaxRetries = DefaultMaxRetries
	}
}

// ApplyDatabaseURL replaces the database options with ones parsed from a postgres:// URL.
func (c *Config) ApplyDatabaseURL(databaseURL string, maxConns int, maxConnLifetime string) error {
	opt, err := pg.ParseURL(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database URL: %w", err)
	}

	opt.MaxRetries = DefaultMaxRetries
	if maxConns > 0 {
		opt.PoolSize = maxConns
	}

	if maxConnLifetime != "" {
		lifetime, err := time.ParseDuration(maxConnLifetime)
		if err != nil {
			return fmt.Errorf("parse max connection lifetime: %w", err)
		}
		opt.MaxConnAge = lifetime
	}

	c.Database = *opt
	return nil
}

// DSN renders the database options as a connection URL for the migrator.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Addr,
		Path:     "/" + c.Database.Database,
		RawQuery: "sslmode=disable",
	}
	if c.Database.TLSConfig != nil {
		u.RawQuery = "sslmode=require"
	}

	return u.String()
}
