package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/textfix/pkg/logger"
	"github.com/dmitrymomot/textfix/pkg/statemachine"
)

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("scan then report", func(t *testing.T) {
		lc := newLifecycle(logger.Discard())
		assert.Equal(t, StateConfigured, lc.Current())
		require.NoError(t, lc.Fire(ctx, eventStart))
		require.NoError(t, lc.Fire(ctx, eventFinish))
		assert.Equal(t, StateReported, lc.Current())
		assert.True(t, lc.Final())
	})

	t.Run("interrupt is final", func(t *testing.T) {
		lc := newLifecycle(logger.Discard())
		require.NoError(t, lc.Fire(ctx, eventStart))
		require.NoError(t, lc.Fire(ctx, eventInterrupt))
		assert.True(t, statemachine.IsNoTransition(lc.Fire(ctx, eventFinish)))
		assert.Equal(t, StateInterrupted, lc.Current())
	})

	t.Run("cannot finish before scanning", func(t *testing.T) {
		lc := newLifecycle(logger.Discard())
		assert.True(t, statemachine.IsNoTransition(lc.Fire(ctx, eventFinish)))
		assert.Equal(t, StateConfigured, lc.Current())
	})
}
