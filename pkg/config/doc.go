// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - LoadEnv reads explicit env files (the --env-file flag of textfix).
//   - Load parses the process environment into any struct with env tags,
//     reading the default .env file once first.
//   - MustLoad panics on failure for settings a command cannot run without.
//
// Usage:
//
//	var cfg reconcile.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Errors wrap the sentinels ErrParsingConfig, ErrLoadingEnvFile and
// ErrNilPointer and can be compared with errors.Is.
package config
