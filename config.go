package critql

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config describes one data source connection.
type Config struct {
	// Dialect selects the adapter: postgres, mysql or sqlite.
	Dialect string `yaml:"dialect"`

	// DSN is used as-is when set. Otherwise the adapter assembles one
	// from the discrete fields below.
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Database string            `yaml:"database"`
	Params   map[string]string `yaml:"params"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// Location is the IANA zone used to format and parse temporal values.
	// Empty means UTC.
	Location string `yaml:"location"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data. ${VAR} references are expanded from the
// environment before parsing.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse data source config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for missing or inconsistent settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Dialect) {
	case "postgres", "mysql", "sqlite":
	case "":
		return fmt.Errorf("config: dialect is required")
	default:
		return fmt.Errorf("config: unknown dialect %q", c.Dialect)
	}
	if c.DSN == "" && c.Database == "" {
		return fmt.Errorf("config: dsn or database is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return fmt.Errorf("config: connection pool sizes cannot be negative")
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// TimeLocation resolves Location, defaulting to UTC.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("config: invalid location %q: %w", c.Location, err)
	}
	return loc, nil
}

// Level resolves LogLevel, defaulting to info.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// ApplyPool applies the configured pool limits. Zero values keep driver defaults.
func (c *Config) ApplyPool(db *sql.DB) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
}
