// Package config loads the service configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-DropInService/internal/catalog"
	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server           ServerConfig           `toml:"server"`
	Database         DatabaseConfig         `toml:"database"`
	Redis            RedisConfig            `toml:"redis"`
	Logs             LogsConfig             `toml:"logs"`
	Metrics          MetricsConfig          `toml:"metrics"`
	ServiceDay       ServiceDayConfig       `toml:"service_day"`
	Catalog          CatalogConfig          `toml:"catalog"`
	SettingsDefaults SettingsDefaultsConfig `toml:"settings_defaults"`
	Tx               TxConfig               `toml:"tx"`
}

// ServerConfig timeouts are in seconds
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN builds a lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig: an empty Addr disables the availability cache
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	CacheTTL int    `toml:"cache_ttl"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.CacheTTL) * time.Second
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ServiceDayConfig struct {
	Timezone string `toml:"timezone"`
}

// CatalogConfig overrides the built-in slot lists when set
type CatalogConfig struct {
	ShowerSlots    []string `toml:"shower_slots"`
	ShowerCapacity int      `toml:"shower_capacity"`
	LaundrySlots   []string `toml:"laundry_slots"`
}

// SettingsDefaultsConfig is served until staff save settings
type SettingsDefaultsConfig struct {
	MaxOnsiteLaundrySlots int   `toml:"max_onsite_laundry_slots"`
	OffsiteLaundryEnabled *bool `toml:"offsite_laundry_enabled"`
}

// Settings returns the defaults as domain settings
func (s SettingsDefaultsConfig) Settings() domain.Settings {
	out := *domain.DefaultSettings()
	if s.MaxOnsiteLaundrySlots != 0 {
		out.MaxOnsiteLaundrySlots = s.MaxOnsiteLaundrySlots
	}
	if s.OffsiteLaundryEnabled != nil {
		out.OffsiteLaundryEnabled = *s.OffsiteLaundryEnabled
	}
	return out
}

// TxConfig: Backoff is in milliseconds
type TxConfig struct {
	MaxAttempts int `toml:"max_attempts"`
	Backoff     int `toml:"backoff"`
}

func (t TxConfig) BackoffDuration() time.Duration {
	return time.Duration(t.Backoff) * time.Millisecond
}

// Load reads path, expands ${ENV} placeholders and applies defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes TOML content; used by Load and tests
func Parse(content string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(os.ExpandEnv(content), cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used for missing values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "dropin",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			CacheTTL: 30,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "dropin_service",
		},
		ServiceDay: ServiceDayConfig{
			Timezone: domain.DefaultTimezone,
		},
		Catalog: CatalogConfig{
			ShowerCapacity: domain.DefaultShowerCapacity,
		},
		Tx: TxConfig{
			MaxAttempts: 3,
			Backoff:     20,
		},
	}
}

// applyDefaults fills values that TOML may have cleared, such as empty strings
func (c *Config) applyDefaults() {
	d := Default()
	if c.ServiceDay.Timezone == "" {
		c.ServiceDay.Timezone = d.ServiceDay.Timezone
	}
	if c.Logs.Level == "" {
		c.Logs.Level = d.Logs.Level
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = d.Metrics.ServiceName
	}
	if len(c.Catalog.ShowerSlots) == 0 {
		c.Catalog.ShowerSlots = catalog.DefaultShowerSlots
	}
	if len(c.Catalog.LaundrySlots) == 0 {
		c.Catalog.LaundrySlots = catalog.DefaultLaundrySlots
	}
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Redis.Enabled() && c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("%w: redis.cache_ttl must be positive", ErrInvalidConfig)
	}
	if c.Catalog.ShowerCapacity <= 0 {
		return fmt.Errorf("%w: catalog.shower_capacity must be positive", ErrInvalidConfig)
	}
	defaults := c.SettingsDefaults.Settings()
	if err := defaults.Validate(); err != nil {
		return fmt.Errorf("%w: settings_defaults: %w", ErrInvalidConfig, err)
	}
	if c.Tx.MaxAttempts <= 0 {
		return fmt.Errorf("%w: tx.max_attempts must be positive", ErrInvalidConfig)
	}
	return nil
}
