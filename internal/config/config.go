// Package config loads docbind settings from an optional YAML file and
// DOCBIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-docbind/pkg/binder"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRemote   = "remote"
	DriverNone     = "none"
)

// DefaultFile is read from the working directory when Load gets no path.
const DefaultFile = "docbind.yaml"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Render    RenderConfig    `mapstructure:"render"`
	Server    ServerConfig    `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
	MinConns    int32  `mapstructure:"min_conns"`
	RemoteURL   string `mapstructure:"remote_url"`
	RemoteToken string `mapstructure:"remote_token"`
}

type TemplatesConfig struct {
	Dir        string `mapstructure:"dir"`
	ProjectDir string `mapstructure:"project_dir"`
}

type RenderConfig struct {
	DefaultRenderer string `mapstructure:"default_renderer"`
	Fallback        string `mapstructure:"fallback"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "docbind.db")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.max_conns", 10)
	v.SetDefault("storage.min_conns", 1)
	v.SetDefault("storage.remote_url", "")
	v.SetDefault("storage.remote_token", "")
	v.SetDefault("templates.dir", "")
	v.SetDefault("templates.project_dir", ".")
	v.SetDefault("render.default_renderer", "text")
	v.SetDefault("render.fallback", string(binder.FallbackLabel))
	v.SetDefault("server.addr", ":8080")
}

// Load reads path (or DefaultFile when empty and present), overlays the
// environment and validates the result. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DOCBIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			v.SetConfigFile(DefaultFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", DefaultFile, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Render.DefaultRenderer = strings.TrimSpace(c.Render.DefaultRenderer)
	c.Render.Fallback = strings.ToLower(strings.TrimSpace(c.Render.Fallback))
}

// Validate rejects unknown drivers, fallbacks and formats, and drivers
// missing their connection settings.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: storage.sqlite_path is required for the sqlite driver", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("%w: storage.database_url is required for the postgres driver", ErrInvalidConfig)
		}
	case DriverRemote:
		if c.Storage.RemoteURL == "" {
			return fmt.Errorf("%w: storage.remote_url is required for the remote driver", ErrInvalidConfig)
		}
	case DriverNone:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if _, err := binder.ParseFallback(c.Render.Fallback); err != nil {
		return fmt.Errorf("%w: render.fallback: %w", ErrInvalidConfig, err)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Fallback returns the parsed render fallback. Validate has already
// rejected unknown values.
func (c *Config) Fallback() binder.Fallback {
	fallback, _ := binder.ParseFallback(c.Render.Fallback)
	return fallback
}
