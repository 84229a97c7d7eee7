package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// FileName is the config file looked up in the working directory
const FileName = "a2ldb"

// EnvPrefix prefixes environment overrides, e.g. A2LDB_DATABASE_CACHE_MB
const EnvPrefix = "A2LDB"

// Config represents the a2ldb configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
}

// DatabaseConfig configures database files
type DatabaseConfig struct {
	CacheMB int    `mapstructure:"cache_mb"`
	Dialect string `mapstructure:"dialect"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// OutputConfig configures terminal output
type OutputConfig struct {
	NoColor bool   `mapstructure:"no_color"`
	Format  string `mapstructure:"format"`
}

// Load reads a2ldb.yaml from the working directory if present
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads an explicit config file. An empty path searches the
// working directory and falls back to defaults.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database.cache_mb", 4)
	v.SetDefault("database.dialect", "sqlite")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("output.no_color", false)
	v.SetDefault("output.format", "yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Database.CacheMB <= 0 {
		return fmt.Errorf("database.cache_mb must be positive, got: %d", cfg.Database.CacheMB)
	}
	switch cfg.Database.Dialect {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.dialect must be sqlite or postgres, got: %s", cfg.Database.Dialect)
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch cfg.Output.Format {
	case "yaml", "json":
	default:
		return fmt.Errorf("output.format must be yaml or json, got: %s", cfg.Output.Format)
	}
	return nil
}

// ParseLevel parses a log level name
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
