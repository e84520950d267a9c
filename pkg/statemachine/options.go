package statemachine

import "errors"

// ErrFinalState is returned when a transition leaves a state marked final.
var ErrFinalState = errors.New("final state cannot have outgoing transitions")

// Option configures a Machine during construction.
type Option[S, E comparable] func(*Machine[S, E]) error

// TransitionOption attaches guards and actions to one transition.
type TransitionOption[S, E comparable] func(*transition[S, E])

// WithTransition registers a transition from one state to another on event.
func WithTransition[S, E comparable](from, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		if _, ok := m.final[from]; ok {
			return newTransitionError(from, event, ErrFinalState)
		}
		t := transition[S, E]{to: to}
		for _, opt := range opts {
			opt(&t)
		}
		m.add(from, to, event, t.guards, t.actions)
		return nil
	}
}

// WithFinal marks states that accept no further events. Register final
// states before transitions so outgoing edges are rejected.
func WithFinal[S, E comparable](states ...S) Option[S, E] {
	return func(m *Machine[S, E]) error {
		for _, s := range states {
			if len(m.transitions[s]) > 0 {
				var zero E
				return newTransitionError(s, zero, ErrFinalState)
			}
			m.final[s] = struct{}{}
		}
		return nil
	}
}

// WithGuard adds a guard to a transition. Nil guards are ignored.
func WithGuard[S, E comparable](g Guard[S, E]) TransitionOption[S, E] {
	return func(t *transition[S, E]) {
		if g != nil {
			t.guards = append(t.guards, g)
		}
	}
}

// WithAction adds an action to a transition. Nil actions are ignored.
func WithAction[S, E comparable](a Action[S, E]) TransitionOption[S, E] {
	return func(t *transition[S, E]) {
		if a != nil {
			t.actions = append(t.actions, a)
		}
	}
}
