package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path enables a rotating log file instead of the console.
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CatalogConfig names the single user allowed to create trackers.
type CatalogConfig struct {
	Authority string `yaml:"authority"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "tally.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Catalog: CatalogConfig{
			Authority: "local",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TALLY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TALLY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TALLY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TALLY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TALLY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TALLY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TALLY_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("TALLY_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("TALLY_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TALLY_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if authority := os.Getenv("TALLY_CATALOG_AUTHORITY"); authority != "" {
		cfg.Catalog.Authority = authority
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports configuration that the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		errs = append(errs, fmt.Errorf("unknown transport mode %q", c.Transport.Mode))
	}
	if c.Transport.Mode == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
