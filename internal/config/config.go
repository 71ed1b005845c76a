package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from an optional config file
// and environment variables.
type Config struct {
	Env        string `mapstructure:"env"`         // application environment (local, production)
	HTTPAddr   string `mapstructure:"http_addr"`   // listen address for the HTTP API
	SQLitePath string `mapstructure:"sqlite_path"` // path to the SQLite database file
}

// Load reads configuration from .env, config/config.yaml and the environment.
// Every key has a default, so a bare process starts with a local setup.
func Load() (*Config, error) {
	// .env is a local convenience; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("sqlite_path", "quizhub.db")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
	_ = v.BindEnv("sqlite_path", "SQLITE_PATH")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
