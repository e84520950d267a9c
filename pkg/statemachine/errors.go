package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNoTransition       = errors.New("no transition available")
	ErrTransitionRejected = errors.New("transition rejected by guards")
	ErrActionFailed       = errors.New("transition action failed")
)

// TransitionError describes a Fire call that did not change the state.
type TransitionError struct {
	From  string
	Event string
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: from state %q for event %q", e.Err, e.From, e.Event)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

func newTransitionError[S, E comparable](from S, event E, err error) *TransitionError {
	return &TransitionError{From: fmt.Sprint(from), Event: fmt.Sprint(event), Err: err}
}

// IsNoTransition reports whether err means the event is not defined for the
// current state.
func IsNoTransition(err error) bool {
	return errors.Is(err, ErrNoTransition)
}

// IsTransitionRejected reports whether err means guards vetoed the event.
func IsTransitionRejected(err error) bool {
	return errors.Is(err, ErrTransitionRejected)
}
