// Package config loads server settings from PETPALS_* environment variables
// with command-line flag overrides.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// Config holds the server settings.
type Config struct {
	HTTPAddr string `env:"PETPALS_HTTP_ADDR" envDefault:":8080"`

	DBDriver string `env:"PETPALS_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"PETPALS_DB_DSN"    envDefault:"./data/petpals.db"`

	JWTSecret string        `env:"PETPALS_JWT_SECRET"`
	TokenTTL  time.Duration `env:"PETPALS_TOKEN_TTL"  envDefault:"24h"`

	LivePollInterval time.Duration `env:"PETPALS_LIVE_POLL_INTERVAL" envDefault:"5s"`
	HungerTick       time.Duration `env:"PETPALS_HUNGER_TICK"        envDefault:"1h"`
	RulesFile        string        `env:"PETPALS_RULES_FILE"`

	RedisAddr    string `env:"PETPALS_REDIS_ADDR"`
	RedisChannel string `env:"PETPALS_REDIS_CHANNEL" envDefault:"petpals:live"`

	LogLevel  string `env:"PETPALS_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"PETPALS_LOG_FORMAT" envDefault:"text"`
}

// Load reads the environment, then applies flags from args (without the
// program name). It returns pflag.ErrHelp when --help is given.
func Load(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	flagSet := pflag.NewFlagSet("petpals", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flagSet.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "database driver: sqlite or pgx")
	flagSet.StringVar(&cfg.DBDSN, "db-dsn", cfg.DBDSN, "database file path or connection string")
	flagSet.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "pet evolution rules YAML file")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings and value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("PETPALS_JWT_SECRET is required"))
	}
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Errorf("unsupported db driver %q", c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	if c.LivePollInterval <= 0 {
		errs = append(errs, errors.New("live poll interval must be positive"))
	}
	if c.HungerTick <= 0 {
		errs = append(errs, errors.New("hunger tick must be positive"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
