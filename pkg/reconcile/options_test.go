package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/textfix/pkg/reconcile"
)

func TestParseMode(t *testing.T) {
	m, err := reconcile.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, reconcile.ModeDryRun, m)

	m, err = reconcile.ParseMode("apply")
	require.NoError(t, err)
	assert.Equal(t, reconcile.ModeApply, m)

	_, err = reconcile.ParseMode("APPLY")
	assert.ErrorIs(t, err, reconcile.ErrInvalidMode)
}

func TestRunOptions_Validate(t *testing.T) {
	assert.NoError(t, reconcile.DefaultRunOptions().Validate())

	err := reconcile.RunOptions{Mode: "x", BatchSize: -1, Limit: -5}.Validate()
	assert.ErrorIs(t, err, reconcile.ErrInvalidMode)
	assert.ErrorIs(t, err, reconcile.ErrInvalidBatchSize)
	assert.ErrorIs(t, err, reconcile.ErrInvalidLimit)
}

func TestConfig_RunOptions(t *testing.T) {
	cfg := reconcile.Config{
		Mode:         "apply",
		BatchSize:    50,
		Limit:        10,
		Targets:      []string{"Listing"},
		Resume:       true,
		SampleSize:   5,
		WriteRetries: 1,
		WriteBackoff: time.Second,
	}
	opts, err := cfg.RunOptions()
	require.NoError(t, err)
	assert.Equal(t, reconcile.RunOptions{
		Mode:      reconcile.ModeApply,
		BatchSize: 50,
		Limit:     10,
		Targets:   []string{"Listing"},
		Resume:    true,
	}, opts)
	assert.Len(t, cfg.ReconcilerOptions(), 2)

	_, err = reconcile.Config{Mode: "later", BatchSize: 1}.RunOptions()
	assert.ErrorIs(t, err, reconcile.ErrInvalidMode)

	_, err = reconcile.Config{Mode: "apply"}.RunOptions()
	assert.ErrorIs(t, err, reconcile.ErrInvalidBatchSize)
}
