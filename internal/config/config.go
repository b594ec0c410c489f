package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables; "__" separates sections,
// so TMK_DB__MAX_OPEN_CONNS maps to db.max_open_conns.
const EnvPrefix = "TMK_"

type Config struct {
	DB        DBConfig        `koanf:"db"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Server    ServerConfig    `koanf:"server"`
}

type ServerConfig struct {
	GRPCAddr        string `koanf:"grpc_addr"`
	LogLevel        string `koanf:"log_level"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

// SchedulerConfig holds the tunables of the slot search.
type SchedulerConfig struct {
	TimeZone        string `koanf:"timezone"`
	HorizonDays     int    `koanf:"horizon_days"`
	GridMinutes     int    `koanf:"grid_minutes"`
	Spacing         string `koanf:"spacing"`
	DefaultDuration int    `koanf:"default_duration_min"`
	Lookback        string `koanf:"lookback"`
}

const (
	DefaultDBDriver              = "postgres"
	DefaultDBHost                = "postgres"
	DefaultDBPort                = 5432
	DefaultDBUser                = "telemarketing"
	DefaultDBPassword            = "telemarketing"
	DefaultDBName                = "telemarketing"
	DefaultDBSSLMode             = "disable"
	DefaultDBTimeZone            = "Europe/Rome"
	DefaultDBMaxOpenConns        = 10
	DefaultDBMaxIdleConns        = 5
	DefaultDBConnMaxLifeTime     = 30
	DefaultSchedulerTimeZone     = "Europe/Rome"
	DefaultSchedulerHorizonDays  = 14
	DefaultSchedulerGridMinutes  = 30
	DefaultSchedulerSpacing      = "2h"
	DefaultSchedulerDuration     = 60
	DefaultSchedulerLookback     = "24h"
	DefaultServerGRPCAddr        = ":50051"
	DefaultServerLogLevel        = "info"
	DefaultServerShutdownTimeout = "10s"
)

// Load merges, in increasing priority: defaults, the YAML file at path (if
// any), TMK_* environment variables and explicitly set flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"db.driver":                      DefaultDBDriver,
		"db.host":                        DefaultDBHost,
		"db.port":                        DefaultDBPort,
		"db.user":                        DefaultDBUser,
		"db.password":                    DefaultDBPassword,
		"db.name":                        DefaultDBName,
		"db.sslmode":                     DefaultDBSSLMode,
		"db.timezone":                    DefaultDBTimeZone,
		"db.max_open_conns":              DefaultDBMaxOpenConns,
		"db.max_idle_conns":              DefaultDBMaxIdleConns,
		"db.conn_max_lifetime_min":       DefaultDBConnMaxLifeTime,
		"scheduler.timezone":             DefaultSchedulerTimeZone,
		"scheduler.horizon_days":         DefaultSchedulerHorizonDays,
		"scheduler.grid_minutes":         DefaultSchedulerGridMinutes,
		"scheduler.spacing":              DefaultSchedulerSpacing,
		"scheduler.default_duration_min": DefaultSchedulerDuration,
		"scheduler.lookback":             DefaultSchedulerLookback,
		"server.grpc_addr":               DefaultServerGRPCAddr,
		"server.log_level":               DefaultServerLogLevel,
		"server.shutdown_timeout":        DefaultServerShutdownTimeout,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		slog.Debug("Environment config not loaded", "error", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.DB.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the calendar zone all availability rules are expressed in.
func (c SchedulerConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		name = DefaultSchedulerTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", name, err)
	}
	return loc, nil
}

func (c SchedulerConfig) SpacingDuration() (time.Duration, error) {
	return DurationOrDefault(c.Spacing, DefaultSchedulerSpacing)
}

func (c SchedulerConfig) LookbackDuration() (time.Duration, error) {
	return DurationOrDefault(c.Lookback, DefaultSchedulerLookback)
}

// DurationOrDefault parses a duration string and falls back to defaultValue when empty.
func DurationOrDefault(value string, defaultValue string) (time.Duration, error) {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		candidate = strings.TrimSpace(defaultValue)
	}
	if candidate == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(candidate)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", candidate, err)
	}
	return d, nil
}
