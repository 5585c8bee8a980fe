package configkit

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing configuration source.
	ErrNotFound = errors.New("configkit: not found")
	// ErrParse reports malformed structured input.
	ErrParse = errors.New("configkit: parse error")
	// ErrNoEvaluator is returned by operations on a store without an evaluator.
	ErrNoEvaluator = errors.New("configkit: store has no evaluator")
	// ErrUnsupportedValue is returned when a document value has no store literal.
	ErrUnsupportedValue = errors.New("configkit: unsupported value")
)

// EvaluatorError captures the store operation and slot alongside the error
// raised by the evaluator.
type EvaluatorError struct {
	Op     string
	Slot   string
	Script string
	Err    error
}

func (e *EvaluatorError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("configkit: %s %s %s: %v", e.Op, describeSlot(e.Slot), describeScript(e.Script), e.Err)
}

func (e *EvaluatorError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeSlot(slot string) string {
	if slot == "" {
		return "slot=<none>"
	}
	return fmt.Sprintf("slot=%q", slot)
}

func describeScript(script string) string {
	if script == "" {
		return "script=<empty>"
	}
	const max = 80
	if len(script) > max {
		script = script[:max] + "..."
	}
	return fmt.Sprintf("script=%q", script)
}

func wrapEvaluatorError(op, slot, script string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluatorError
	if errors.As(err, &evalErr) {
		if evalErr.Op == "" {
			evalErr.Op = op
		}
		if evalErr.Slot == "" {
			evalErr.Slot = slot
		}
		if evalErr.Script == "" {
			evalErr.Script = script
		}
		return evalErr
	}

	return &EvaluatorError{
		Op:     op,
		Slot:   slot,
		Script: script,
		Err:    err,
	}
}
