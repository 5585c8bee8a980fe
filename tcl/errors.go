package tcl

import (
	"errors"
	"fmt"
)

// Error reports a failure raised while evaluating a script. Cmd is empty for
// syntax errors detected before a command could be dispatched.
type Error struct {
	Cmd string
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// withCommand attaches the dispatched command name when the error does not
// carry one yet.
func withCommand(cmd string, err error) error {
	if err == nil {
		return nil
	}
	var tclErr *Error
	if errors.As(err, &tclErr) {
		if tclErr.Cmd == "" {
			tclErr.Cmd = cmd
		}
		return err
	}
	return &Error{Cmd: cmd, Msg: err.Error(), Err: err}
}

func wrongArgs(usage string) error {
	return errorf("wrong # args: should be %q", usage)
}

// returnSignal unwinds evaluation when the return command runs.
type returnSignal struct {
	value string
}

func (r *returnSignal) Error() string {
	return "return outside of procedure"
}
