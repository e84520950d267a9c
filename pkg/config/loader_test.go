package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/textfix/pkg/config"
)

type sampleConfig struct {
	Mode    string        `env:"CFGTEST_MODE" envDefault:"dry-run"`
	Batch   int           `env:"CFGTEST_BATCH" envDefault:"200"`
	Targets []string      `env:"CFGTEST_TARGETS" envSeparator:","`
	Backoff time.Duration `env:"CFGTEST_BACKOFF" envDefault:"200ms"`
}

type requiredConfig struct {
	URL string `env:"CFGTEST_REQUIRED_URL,required"`
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "dry-run", cfg.Mode)
		assert.Equal(t, 200, cfg.Batch)
		assert.Empty(t, cfg.Targets)
		assert.Equal(t, 200*time.Millisecond, cfg.Backoff)
	})

	t.Run("reads process environment on every call", func(t *testing.T) {
		t.Setenv("CFGTEST_BATCH", "50")
		t.Setenv("CFGTEST_TARGETS", "Listing,Tour")

		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 50, cfg.Batch)
		assert.Equal(t, []string{"Listing", "Tour"}, cfg.Targets)

		t.Setenv("CFGTEST_BATCH", "75")
		var again sampleConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, 75, again.Batch)
	})

	t.Run("invalid value wraps ErrParsingConfig", func(t *testing.T) {
		t.Setenv("CFGTEST_BATCH", "lots")
		var cfg sampleConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("missing required value", func(t *testing.T) {
		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[sampleConfig](nil), config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})

	t.Setenv("CFGTEST_REQUIRED_URL", "postgres://localhost/app")
	assert.NotPanics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
		assert.Equal(t, "postgres://localhost/app", cfg.URL)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("later files override earlier ones", func(t *testing.T) {
		// register cleanup for variables the files will set
		t.Setenv("CFGTEST_MODE", "")
		t.Setenv("CFGTEST_BATCH", "")

		first := writeEnvFile(t, "CFGTEST_MODE=apply\nCFGTEST_BATCH=10\n")
		second := writeEnvFile(t, "CFGTEST_BATCH=20\n")
		require.NoError(t, config.LoadEnv(first, second))

		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "apply", cfg.Mode)
		assert.Equal(t, 20, cfg.Batch)
	})

	t.Run("no paths is a no-op", func(t *testing.T) {
		assert.NoError(t, config.LoadEnv())
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})
}
