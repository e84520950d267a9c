package statemachine

import (
	"context"
	"errors"
	"sync"
)

// Guard decides at fire time whether a transition may happen.
type Guard[S, E comparable] func(ctx context.Context, from S, event E) bool

// Action runs after the guards passed and before the state changes. An
// error keeps the machine in its current state.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E) error

type transition[S, E comparable] struct {
	to      S
	guards  []Guard[S, E]
	actions []Action[S, E]
}

// Machine holds the current state and the transition table indexed by
// [from][event]. Several transitions for one pair are tried in
// registration order; the first whose guards pass wins.
type Machine[S, E comparable] struct {
	mu          sync.RWMutex
	initial     S
	current     S
	transitions map[S]map[E][]transition[S, E]
	final       map[S]struct{}
}

// New creates a machine in the initial state.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]transition[S, E]),
		final:       make(map[S]struct{}),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew works like New but panics on an invalid option.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic("statemachine: " + err.Error())
	}
	return m
}

func (m *Machine[S, E]) add(from, to S, event E, guards []Guard[S, E], actions []Action[S, E]) {
	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[E][]transition[S, E])
	}
	m.transitions[from][event] = append(m.transitions[from][event], transition[S, E]{
		to:      to,
		guards:  guards,
		actions: actions,
	})
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Final reports whether the current state was marked final.
func (m *Machine[S, E]) Final() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.final[m.current]
	return ok
}

// Fire moves the machine along the transition registered for event.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.pick(ctx, event)
	if err != nil {
		return err
	}
	for _, action := range t.actions {
		if err := action(ctx, m.current, t.to, event); err != nil {
			return newTransitionError(m.current, event, errors.Join(ErrActionFailed, err))
		}
	}
	m.current = t.to
	return nil
}

// CanFire reports whether Fire would find a transition whose guards pass.
// Actions are not run.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.pick(ctx, event)
	return err == nil
}

// Reset returns the machine to its initial state.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine[S, E]) pick(ctx context.Context, event E) (transition[S, E], error) {
	candidates := m.transitions[m.current][event]
	if len(candidates) == 0 {
		return transition[S, E]{}, newTransitionError(m.current, event, ErrNoTransition)
	}
	for _, t := range candidates {
		if passes(ctx, t.guards, m.current, event) {
			return t, nil
		}
	}
	return transition[S, E]{}, newTransitionError(m.current, event, ErrTransitionRejected)
}

func passes[S, E comparable](ctx context.Context, guards []Guard[S, E], from S, event E) bool {
	for _, g := range guards {
		if !g(ctx, from, event) {
			return false
		}
	}
	return true
}
