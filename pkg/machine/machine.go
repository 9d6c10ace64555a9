package machine

import (
	"errors"
	"fmt"
	"slices"
)

type State interface {
	~string
}

// Allowable maps a from state to the states it may move to
type Allowable[S State] struct {
	from S
	to   []S
}

// StateMachine checks transitions out of a current state
type StateMachine[S State] struct {
	current     S
	transitions []Allowable[S]
}

var ErrInvalidTransition = errors.New("invalid state transition")

// TransitionBuilder helps in creating a from-to relationship for state transitions
type TransitionBuilder[S State] struct {
	transition Allowable[S]
}

func New[S State](current S, transitions ...Allowable[S]) *StateMachine[S] {
	return &StateMachine[S]{current: current, transitions: transitions}
}

// From starts a transition out of a specific state
func From[S State](from S) *TransitionBuilder[S] {
	return &TransitionBuilder[S]{transition: Allowable[S]{from: from}}
}

// To sets the possible destination states and returns the configured transition
func (tb *TransitionBuilder[S]) To(to ...S) Allowable[S] {
	tb.transition.to = to
	return tb.transition
}

// Current returns the state the machine was built with
func (m *StateMachine[S]) Current() S {
	return m.current
}

// Allowed lists every state reachable from the current state
func (m *StateMachine[S]) Allowed() []S {
	var allowed []S
	for _, t := range m.transitions {
		if t.from != m.current {
			continue
		}
		for _, s := range t.to {
			if !slices.Contains(allowed, s) {
				allowed = append(allowed, s)
			}
		}
	}

	return allowed
}

// ToState returns nil if the current state can move to s. The returned error wraps ErrInvalidTransition.
func (m *StateMachine[S]) ToState(s S) error {
	if slices.Contains(m.Allowed(), s) {
		return nil
	}

	return fmt.Errorf("%w: %q to %q", ErrInvalidTransition, m.current, s)
}
