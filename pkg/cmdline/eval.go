package cmdline

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"cmdmacro/pkg/args"
)

// Vars binds names used in groups to Go values.
type Vars map[string]any

// Env is a read-only view of environment variables.
type Env interface {
	LookupEnv(name string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(name string) (string, bool) { return os.LookupEnv(name) }

// MapEnv is an Env backed by a map.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Scope is what a plan is evaluated against. A nil Env reads the process
// environment.
type Scope struct {
	Vars Vars
	Env  Env
}

func (s Scope) getenv(name string) string {
	env := s.Env
	if env == nil {
		env = OSEnv{}
	}
	v, _ := env.LookupEnv(name)
	return v
}

func (s Scope) lookup(name string) (any, error) {
	v, ok := s.Vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnbound, name)
	}
	return v, nil
}

// Command is a program and its arguments, ready to hand to an invoker.
type Command struct {
	Program string
	Args    []string
}

// Argv returns the program followed by its arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the command quoted for a POSIX shell.
func (c *Command) String() string {
	argv := c.Argv()
	parts := make([]string, len(argv))
	for i, a := range argv {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(a)
		}
		parts[i] = q
	}
	return strings.Join(parts, " ")
}

// Eval runs the plan against scope.
func (p *Plan) Eval(scope Scope) (*Command, error) {
	prog, err := p.Program.Operand.text(scope)
	if err != nil {
		return nil, fmt.Errorf("phase=eval program %s: %w", p.Program, err)
	}

	var list args.List
	for i, prod := range p.Args {
		if err := prod.apply(&list, scope); err != nil {
			return nil, fmt.Errorf("phase=eval arg=%d %s: %w", i+1, prod, err)
		}
	}

	argv := list.Strings()
	if argv == nil {
		argv = []string{}
	}
	return &Command{Program: prog, Args: argv}, nil
}

// Argv evaluates the plan and returns the program followed by its arguments.
func (p *Plan) Argv(scope Scope) ([]string, error) {
	cmd, err := p.Eval(scope)
	if err != nil {
		return nil, err
	}
	return cmd.Argv(), nil
}

func (p Production) apply(list *args.List, scope Scope) error {
	switch p.Rule {
	case RuleLiteral, RuleEnv, RuleValue:
		s, err := p.Operand.text(scope)
		if err != nil {
			return err
		}
		list.Arg(s)

	case RuleOptional:
		v, err := p.Operand.value(scope)
		if err != nil {
			return err
		}
		opt, err := args.OptOf(v)
		if err != nil {
			return err
		}
		list.OptArg(args.Plain(opt))

	case RuleFlagged:
		flag, err := p.Flag.text(scope)
		if err != nil {
			return err
		}
		v, err := p.Operand.value(scope)
		if err != nil {
			return err
		}
		if !args.IsIterable(v) {
			opt, err := args.OptOf(v)
			if err != nil {
				return err
			}
			list.OptArg(args.Flagged(flag, opt))
			return nil
		}
		items, err := args.Iter(v)
		if err != nil {
			return err
		}
		var itemErr error
		seq := func(yield func(string) bool) {
			for s, err := range items {
				if err != nil {
					itemErr = err
					return
				}
				if !yield(s) {
					return
				}
			}
		}
		list.OptArg(args.FlaggedList(flag, seq))
		return itemErr

	case RuleSpread:
		v, err := p.Operand.value(scope)
		if err != nil {
			return err
		}
		items, err := args.Iter(v)
		if err != nil {
			return err
		}
		for s, err := range items {
			if err != nil {
				return err
			}
			list.Arg(s)
		}

	default:
		return fmt.Errorf("unknown rule %d", p.Rule)
	}
	return nil
}

// text resolves the source to exactly one string.
func (s Source) text(scope Scope) (string, error) {
	switch s.Kind {
	case SourceLiteral:
		return s.Text, nil
	case SourceEnv:
		return scope.getenv(s.Text), nil
	}
	v, err := s.value(scope)
	if err != nil {
		return "", err
	}
	return args.Text(v)
}

func (s Source) value(scope Scope) (any, error) {
	switch s.Kind {
	case SourceLiteral:
		return s.Text, nil
	case SourceEnv:
		return scope.getenv(s.Text), nil
	case SourceRef:
		return scope.lookup(s.Text)
	case SourceValue:
		return s.Value, nil
	}
	return nil, fmt.Errorf("unknown source kind %d", s.Kind)
}
