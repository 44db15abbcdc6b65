// Package flow provides a small finite state machine used to keep the
// callback reconciliation flow honest: every observable phase of a sign-in
// attempt is a state, and only declared transitions can move it forward.
package flow

import (
	"sync"
)

// State names a phase of a flow.
type State string

// Machine is a thread-safe finite state machine over declared transitions.
// The transition table is fixed at construction; only Current changes.
type Machine struct {
	mu          sync.RWMutex
	current     State
	initial     State
	transitions map[State]map[State]struct{}
}

// NewMachine builds a machine starting in initial with the given legal
// transitions.
func NewMachine(initial State, transitions map[State][]State) *Machine {
	table := make(map[State]map[State]struct{}, len(transitions))
	for from, tos := range transitions {
		set := make(map[State]struct{}, len(tos))
		for _, to := range tos {
			set[to] = struct{}{}
		}
		table[from] = set
	}
	return &Machine{current: initial, initial: initial, transitions: table}
}

// Current returns the machine's current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition moves the machine to the given state. It fails with
// ErrIllegalTransition when the move is not declared.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed, ok := m.transitions[m.current]
	if !ok {
		return newIllegalTransition(m.current, to)
	}
	if _, ok := allowed[to]; !ok {
		return newIllegalTransition(m.current, to)
	}
	m.current = to
	return nil
}

// Can reports whether the transition to the given state is legal from the
// current state.
func (m *Machine) Can(to State) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	allowed, ok := m.transitions[m.current]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Terminal reports whether the current state has no outgoing transitions.
func (m *Machine) Terminal() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	allowed, ok := m.transitions[m.current]
	return !ok || len(allowed) == 0
}

// Reset returns the machine to its initial state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
