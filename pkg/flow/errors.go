package flow

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition indicates a move not declared in the transition table.
var ErrIllegalTransition = errors.New("flow: illegal transition")

type illegalTransition struct {
	from, to State
}

func newIllegalTransition(from, to State) error {
	return &illegalTransition{from: from, to: to}
}

func (e *illegalTransition) Error() string {
	return fmt.Sprintf("flow: illegal transition from %q to %q", e.from, e.to)
}

func (e *illegalTransition) Unwrap() error { return ErrIllegalTransition }
