package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DefaultSlotKey is the name of the durable slot holding the board snapshot.
const DefaultSlotKey = "todo_app_data"

// SQLiteConfig holds settings for the sqlite-backed slot.
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// RedisConfig holds settings for the redis-backed slot.
type RedisConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	DB   int    `mapstructure:"db" yaml:"db"`

	// UseKeyring loads the redis password from the system keyring.
	UseKeyring bool `mapstructure:"use_keyring" yaml:"use_keyring"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite" or "redis".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// SlotKey names the single slot the snapshot is written to.
	SlotKey string `mapstructure:"slot_key" yaml:"slot_key"`

	// WriteTimeout bounds each snapshot write.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	SQLite SQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis" yaml:"redis"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// envPrefix is prepended to environment overrides, e.g. TASKBOARD_STORAGE_BACKEND.
const envPrefix = "TASKBOARD"

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskboard", "config.yaml")
}

func homePath(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", parts[len(parts)-1])
	}
	return filepath.Join(append([]string{home}, parts...)...)
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend:      BackendSQLite,
			SlotKey:      DefaultSlotKey,
			WriteTimeout: 2 * time.Second,
			SQLite: SQLiteConfig{
				Path: homePath(".local", "share", "taskboard", "board.db"),
			},
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   homePath(".local", "state", "taskboard", "taskboard.log"),
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.slot_key", cfg.Storage.SlotKey)
	v.SetDefault("storage.write_timeout", cfg.Storage.WriteTimeout)
	v.SetDefault("storage.sqlite.path", cfg.Storage.SQLite.Path)
	v.SetDefault("storage.redis.addr", cfg.Storage.Redis.Addr)
	v.SetDefault("storage.redis.db", cfg.Storage.Redis.DB)
	v.SetDefault("storage.redis.use_keyring", cfg.Storage.Redis.UseKeyring)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("display.theme", cfg.Display.Theme)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with TASKBOARD_ override file values.
// If the file does not exist, defaults (plus any overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.SlotKey) == "" {
		return errors.New("storage.slot_key must not be empty")
	}
	if c.Storage.WriteTimeout <= 0 {
		return fmt.Errorf("storage.write_timeout must be positive, got %s", c.Storage.WriteTimeout)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.slot_key", cfg.Storage.SlotKey)
	v.Set("storage.write_timeout", cfg.Storage.WriteTimeout.String())
	v.Set("storage.sqlite.path", cfg.Storage.SQLite.Path)
	v.Set("storage.redis.addr", cfg.Storage.Redis.Addr)
	v.Set("storage.redis.db", cfg.Storage.Redis.DB)
	v.Set("storage.redis.use_keyring", cfg.Storage.Redis.UseKeyring)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)
	v.Set("display.theme", cfg.Display.Theme)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
