// Package statemachine implements a small finite state machine over
// comparable state and event types.
//
// Transitions are registered up front with functional options. Each
// transition may carry guards, which veto it, and actions, which run before
// the state changes and abort the transition when they fail.
//
//	type phase string
//	type signal string
//
//	m := statemachine.MustNew[phase, signal]("idle",
//	    statemachine.WithTransition[phase, signal]("idle", "busy", "start"),
//	    statemachine.WithTransition[phase, signal]("busy", "idle", "stop"),
//	)
//	if err := m.Fire(ctx, "start"); err != nil {
//	    // handle error
//	}
//
// Fire returns ErrNoTransition when the current state has no transition for
// the event and ErrTransitionRejected when every candidate was vetoed by a
// guard. A Machine is safe for concurrent use.
package statemachine
