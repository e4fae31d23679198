package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	ClientConfig
	SessionConfig
	CorsConfig
	DevAPIConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDev() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Client
	Session
	Cors
	DevAPI
}

// New loads the configuration from the process environment. A .env file in the
// working directory is applied first when present; variables already set win.
func New() (Config, error) {
	return Load(".env")
}

// Load is New with explicit dotenv files. Missing files are skipped.
func Load(dotenvFiles ...string) (Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("[config.Load] %s: %w", f, err)
		}
	}

	var c mainConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("[config.Load] env.Parse: %w", err)
	}
	return c, nil
}
