package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

type Config struct {
	Port           string        `validate:"required,numeric"`
	DiagAddr       string        `validate:"required"`
	Env            string        `validate:"required,oneof=development test production"`
	DatabaseURL    string        `validate:"required"`
	Secret         string        `validate:"required"`
	TokenTTL       time.Duration `validate:"gt=0"`
	LogLevel       string        `validate:"required,oneof=debug info warn error"`
	MigrateOnStart bool
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads an optional .env file, then the process environment.
// TEST_DATABASE_URL replaces DATABASE_URL when APP_ENV is "test".
func Load() (*Config, error) {
	// A missing .env is fine; the OS environment is used instead.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "3003")
	v.SetDefault("DIAG_ADDR", ":9999")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("TOKEN_TTL", time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATE_ON_START", true)
	for _, key := range []string{"DATABASE_URL", "TEST_DATABASE_URL", "SECRET"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		DiagAddr:       v.GetString("DIAG_ADDR"),
		Env:            v.GetString("APP_ENV"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		Secret:         v.GetString("SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
	}
	if cfg.Env == EnvTest {
		cfg.DatabaseURL = v.GetString("TEST_DATABASE_URL")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
