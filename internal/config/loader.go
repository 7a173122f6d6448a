// Package config loads CLI configuration from files and the environment.
//
// Precedence, highest first: environment variables (OBSUP_ prefix), an
// optional obsup.yaml config file, built-in defaults. Credentials are
// normally supplied through the environment so they never land on disk.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the fully-resolved CLI configuration.
type Config struct {
	// Connection identifies the service and credentials.
	Connection ConnectionConfig `mapstructure:"connection"`

	// Upload tunes the retry loop.
	Upload UploadConfig `mapstructure:"upload"`

	// Logging configures the CLI logger.
	Logging LoggingConfig `mapstructure:"logging"`
}

// ConnectionConfig identifies the target service and the caller.
type ConnectionConfig struct {
	// Endpoint is the service URL, e.g. "https://obs.eu-west-101.example.com".
	Endpoint string `mapstructure:"endpoint"`

	// AccessKey / SecretKey are the signing credentials.
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`

	// SecurityToken marks the credentials as temporary when set.
	SecurityToken string `mapstructure:"security_token"`
}

// UploadConfig tunes the retry loop.
type UploadConfig struct {
	MaxRetries  int           `mapstructure:"max_retries"`
	BackoffUnit time.Duration `mapstructure:"backoff_unit"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load resolves the configuration. A non-empty path pins the config file;
// otherwise obsup.yaml is searched in the working directory and ~/.obsup.
// A missing config file is not an error; defaults plus environment still
// form a complete configuration.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults also register the keys so env-only values survive Unmarshal.
	v.SetDefault("connection.endpoint", "")
	v.SetDefault("connection.access_key", "")
	v.SetDefault("connection.secret_key", "")
	v.SetDefault("connection.security_token", "")
	v.SetDefault("upload.max_retries", 3)
	v.SetDefault("upload.backoff_unit", "1s")
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("OBSUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("obsup")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.obsup")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Upload.MaxRetries < 0 {
		return nil, fmt.Errorf("upload.max_retries must not be negative")
	}
	return &cfg, nil
}
