package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into the provided configuration struct.
//
// The default .env file in the working directory is read once per process
// before the first parse; a missing file is not an error. Values already set
// in the process environment win over values from the file.
//
// Every call parses the environment again, so command line code can load the
// config, apply flag overrides and load a fresh copy in tests after t.Setenv.
//
// Example:
//
//	type DatabaseConfig struct {
//		URL     string        `env:"PG_URL,required"`
//		Retries int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		Timeout time.Duration `env:"PG_CONNECT_TIMEOUT" envDefault:"10s"`
//	}
//
//	var dbConfig DatabaseConfig
//	if err := config.Load(&dbConfig); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv reads one or more env files into the process environment.
// Later files override earlier ones; variables already set in the process
// are overridden too, so an explicit --env-file beats a stale shell export.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	for _, p := range paths {
		if err := godotenv.Overload(p); err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", p, err))
		}
	}
	return nil
}
