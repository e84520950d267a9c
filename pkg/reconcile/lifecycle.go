package reconcile

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/textfix/pkg/statemachine"
)

// State is a stage of a run.
type State string

const (
	StateConfigured  State = "configured"
	StateScanning    State = "scanning"
	StateReported    State = "reported"
	StateInterrupted State = "interrupted"
)

type event string

const (
	eventStart     event = "start"
	eventFinish    event = "finish"
	eventInterrupt event = "interrupt"
)

type lifecycle = statemachine.Machine[State, event]

// newLifecycle builds the run state machine. Reported and Interrupted are
// final.
func newLifecycle(log *slog.Logger) *lifecycle {
	logged := statemachine.WithAction[State, event](func(ctx context.Context, from, to State, e event) error {
		log.DebugContext(ctx, "run state changed",
			slog.String("from", string(from)),
			slog.String("to", string(to)),
			slog.String("event", string(e)))
		return nil
	})
	return statemachine.MustNew[State, event](StateConfigured,
		statemachine.WithFinal[State, event](StateReported, StateInterrupted),
		statemachine.WithTransition(StateConfigured, StateScanning, eventStart, logged),
		statemachine.WithTransition(StateScanning, StateReported, eventFinish, logged),
		statemachine.WithTransition(StateScanning, StateInterrupted, eventInterrupt, logged),
	)
}
