package main

import (
	"fmt"
	"os"
	"strings"

	"cmdmacro/pkg/lib"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		if isFlagInterceptError(err) {
			fmt.Fprintln(os.Stderr, "hint: flags inside the command line are intercepted by "+appName+"; use -- to pass them through:")
			fmt.Fprintln(os.Stderr, "  "+appName+" run -- ls -la (dir)")
		}
		lib.Exit(err)
	}
}

// isFlagInterceptError reports whether the error is cobra intercepting a flag
// that was meant for the built command.
func isFlagInterceptError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown flag:") || strings.Contains(msg, "unknown shorthand flag:")
}
