package invoke

import (
	"os"
	"strconv"
)

// ExitStatus is how a child process terminated. The zero value means no
// status is available because the process never ran to completion.
type ExitStatus struct {
	available bool
	exited    bool
	code      int
	desc      string
}

func statusOf(ps *os.ProcessState) ExitStatus {
	if ps == nil {
		return ExitStatus{}
	}
	return ExitStatus{
		available: true,
		exited:    ps.Exited(),
		code:      ps.ExitCode(),
		desc:      ps.String(),
	}
}

// NewExitStatus returns the status of a process that exited with code.
func NewExitStatus(code int) ExitStatus {
	return ExitStatus{available: true, exited: true, code: code, desc: "exit status " + strconv.Itoa(code)}
}

// Available reports whether the process was waited for.
func (s ExitStatus) Available() bool { return s.available }

// Exited reports whether the process exited on its own rather than by signal.
func (s ExitStatus) Exited() bool { return s.exited }

// Code is the exit code, or -1 when the process did not exit normally.
func (s ExitStatus) Code() int {
	if !s.available {
		return -1
	}
	return s.code
}

func (s ExitStatus) Success() bool { return s.available && s.exited && s.code == 0 }

func (s ExitStatus) String() string {
	if !s.available {
		return "no exit status"
	}
	return s.desc
}
