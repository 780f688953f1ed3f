package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rpggio/loom/internal/domain/registration"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
	MCP    MCPConfig    `mapstructure:"mcp"`
	Events EventsConfig `mapstructure:"events"`
	Seed   SeedConfig   `mapstructure:"seed"`
}

type ServerConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	DefaultRegion string `mapstructure:"default_region"`
}

// StoreConfig selects the registry backend. Driver is "sqlite" or "redis".
type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MCPConfig.Mode is "off", "http" or "stdio".
type MCPConfig struct {
	Mode string `mapstructure:"mode"`
}

// EventsConfig enables NATS publishing of audit entries when NATSURL is set.
type EventsConfig struct {
	NATSURL       string `mapstructure:"nats_url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type SeedConfig struct {
	Path string `mapstructure:"path"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from an optional .env file, an optional YAML file and
// LOOM_ prefixed environment variables, in increasing order of precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("LOOM_CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("loom")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.default_region", "us-east-1")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "loom.db")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.redis_prefix", "loom")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("mcp.mode", "off")
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject_prefix", "loom.audit")
	v.SetDefault("seed.path", "")
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("store.driver must be sqlite or redis, got %q", c.Store.Driver)
	}
	switch c.MCP.Mode {
	case "off", "http", "stdio":
	default:
		return fmt.Errorf("mcp.mode must be off, http or stdio, got %q", c.MCP.Mode)
	}
	// Port 0 picks a free port.
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.DefaultRegion == "" {
		return errors.New("server.default_region is required")
	}
	if err := registration.ValidateRegion(c.Server.DefaultRegion); err != nil {
		return fmt.Errorf("server.default_region: %w", err)
	}
	return nil
}
