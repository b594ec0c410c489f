package config

import (
	"fmt"
	"strings"
)

type DBConfig struct {
	// postgres | sqlite
	Driver string `koanf:"driver"`
	// For sqlite: file path or ":memory:". For postgres an explicit DSN wins over the fields below.
	DSN             string `koanf:"dsn"`
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"sslmode"`
	TimeZone        string `koanf:"timezone"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifeTime int    `koanf:"conn_max_lifetime_min"` // minutes
}

func (c DBConfig) Validate() error {
	switch strings.ToLower(c.Driver) {
	case "sqlite":
		if c.DSN == "" {
			return fmt.Errorf("invalid DB config: sqlite requires dsn")
		}
	case "postgres", "":
		if c.DSN == "" && (c.Host == "" || c.User == "" || c.Name == "") {
			return fmt.Errorf("invalid DB config: host/user/name must not be empty")
		}
	default:
		return fmt.Errorf("invalid DB config: unknown driver %q", c.Driver)
	}
	return nil
}

// PostgresDSN renders the key/value DSN understood by pgx.
func (c DBConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}
