// Package config loads process settings from the environment, then flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds arcade server configuration.
type Server struct {
	HTTPAddr      string        `env:"ARCADE_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string        `env:"ARCADE_GRPC_ADDR" envDefault:":9090"`
	ConfigDir     string        `env:"ARCADE_CONFIG_DIR" envDefault:"configs"`
	DBPath        string        `env:"ARCADE_DB_PATH" envDefault:"arcade.db"`
	LogLevel      string        `env:"ARCADE_LOG_LEVEL" envDefault:"info"`
	Dev           bool          `env:"ARCADE_DEV" envDefault:"false"`
	OTelEndpoint  string        `env:"ARCADE_OTEL_ENDPOINT"`
	WatchInterval time.Duration `env:"ARCADE_WATCH_INTERVAL" envDefault:"2s"`
	SessionTTL    time.Duration `env:"ARCADE_SESSION_TTL" envDefault:"30m"`
	AllowOrigins  []string      `env:"ARCADE_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseServer parses environment and flags into Server.
func ParseServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc", cfg.GRPCAddr, "gRPC listen address; empty disables gRPC")
	fs.StringVar(&cfg.ConfigDir, "config", cfg.ConfigDir, "directory holding games/*.yaml")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite history path; empty disables history")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "human-readable development logging")
	fs.DurationVar(&cfg.WatchInterval, "watch", cfg.WatchInterval, "config reload poll interval; 0 disables")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) Validate() error {
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return errors.New("at least one of http or grpc address is required")
	}
	if c.ConfigDir == "" {
		return errors.New("config dir is required")
	}
	if c.WatchInterval < 0 || c.SessionTTL < 0 {
		return errors.New("durations must be >= 0")
	}
	return nil
}
