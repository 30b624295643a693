package outcome

import (
	"errors"
	"fmt"

	"cmdmacro/pkg/invoke"
	"cmdmacro/pkg/output"
)

var (
	ErrStatus = errors.New("command failed")
	ErrIO     = errors.New("command could not run")
)

// StatusError is a process that ran and exited unsuccessfully.
type StatusError struct {
	Status     invoke.ExitStatus
	Message    string
	HasMessage bool
}

func (e *StatusError) Error() string {
	msg := "failed with " + e.Status.String()
	if e.HasMessage && e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// IOError is a process that could not be started or waited for.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", ErrIO, e.Err) }

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// Ok returns res when the process succeeded. A failed process yields a
// *StatusError carrying its standard error, decoded lossily.
func Ok(res *invoke.Result) (*invoke.Result, error) {
	return classify(res, true)
}

// OkNoMsg is Ok without the standard error message.
func OkNoMsg(res *invoke.Result) (*invoke.Result, error) {
	return classify(res, false)
}

func classify(res *invoke.Result, withMsg bool) (*invoke.Result, error) {
	if res.Err != nil {
		return nil, &IOError{Err: res.Err}
	}
	if res.Status.Success() {
		return res, nil
	}
	se := &StatusError{Status: res.Status, HasMessage: withMsg}
	if withMsg {
		se.Message = output.Lossy(res.Stderr)
	}
	return nil, se
}

// Check classifies a bare exit status, for callers that did not capture
// any output.
func Check(status invoke.ExitStatus) error {
	if status.Success() {
		return nil
	}
	return &StatusError{Status: status}
}

func IsStatus(err error) bool { return errors.Is(err, ErrStatus) }

func IsIO(err error) bool { return errors.Is(err, ErrIO) }

// ExitCode picks the process exit code out of err, if err is a status
// failure of a process that exited normally.
func ExitCode(err error) (int, bool) {
	var se *StatusError
	if !errors.As(err, &se) || !se.Status.Exited() {
		return 0, false
	}
	return se.Status.Code(), true
}
