package cmdline

import "fmt"

// Build parses line and evaluates it against vars and the process
// environment.
func Build(line string, vars Vars) (*Command, error) {
	return BuildScope(line, Scope{Vars: vars})
}

func BuildScope(line string, scope Scope) (*Command, error) {
	plan, err := ParsePlan(line)
	if err != nil {
		return nil, err
	}
	return plan.Eval(scope)
}

// MustBuild is Build for lines known to be valid. It panics on error.
func MustBuild(line string, vars Vars) *Command {
	cmd, err := Build(line, vars)
	if err != nil {
		panic(fmt.Sprintf("cmdline: %v", err))
	}
	return cmd
}

// Cmd builds a command from tokens constructed in Go, typically with Value,
// SpreadOf, OptOf and FlagOptOf.
func Cmd(tokens ...Token) (*Command, error) {
	plan, err := Compile(tokens...)
	if err != nil {
		return nil, err
	}
	return plan.Eval(Scope{})
}
