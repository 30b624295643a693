package lib

import (
	"fmt"
	"os"

	"cmdmacro/pkg/outcome"
)

// Exit prints the error and exits the program. A child process failure
// passes the child's exit code through, anything else exits with code 1.
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}

// ExitCode is the code Exit would use for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := outcome.ExitCode(err); ok && code > 0 {
		return code
	}
	return 1
}
