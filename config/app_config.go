// Package config loads application configuration from the environment, with
// optional .env file support.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DBConfig holds the database connection settings.
type DBConfig struct {
	Url string `envconfig:"URL"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	Prefix     string `envconfig:"PREFIX" default:"ledger"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"15:04:05"`
}

// LedgerConfig holds engine tuning knobs.
type LedgerConfig struct {
	// LockTimeout bounds the wait for an account lock before the operation
	// fails as retryable.
	LockTimeout time.Duration `envconfig:"LOCK_TIMEOUT" default:"3s"`
}

// AppConfig is the root configuration object.
type AppConfig struct {
	Env    string       `envconfig:"APP_ENV" default:"development"`
	DB     DBConfig     `envconfig:"DATABASE"`
	Log    LogConfig    `envconfig:"LOG"`
	Ledger LedgerConfig `envconfig:"LEDGER"`
}

// LoadAppConfig reads configuration from the environment, loading a .env file
// first when one exists.
func LoadAppConfig(logger *slog.Logger, envFilePath ...string) (*AppConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var err error
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		err = godotenv.Load(envFilePath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		logger.Warn("No .env file found, using system environment variables")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"lock_timeout", cfg.Ledger.LockTimeout,
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
