package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cmdmacro/pkg/cmdline"
)

const replHelp = `:set NAME=VALUE     bind a value
:list NAME=A B C    bind a list (shell-style splitting)
:none NAME          bind an absent optional
:unset NAME         remove a binding
:vars               show the bindings
:dry on|off         print commands instead of running them
:plan LINE          show the production plan of LINE
:help               this text
:quit, :q           leave
Any other input is a command line template and is run.`

var (
	colorErr    = color.New(color.FgRed, color.Bold)
	colorPrompt = color.New(color.FgCyan, color.Bold)
)

func newReplCmd(a *app) *cobra.Command {
	var opts runOpts
	var b bindingFlags

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read command line templates interactively and run them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := b.vars()
			if err != nil {
				return err
			}
			r := newRepl(a, vars, opts)
			return r.run(cmd.Context())
		},
	}
	b.register(cmd.Flags())
	opts.register(cmd.Flags())
	return cmd
}

type repl struct {
	a    *app
	vars cmdline.Vars
	opts runOpts
	out  io.Writer
}

func newRepl(a *app, vars cmdline.Vars, opts runOpts) *repl {
	if vars == nil {
		vars = cmdline.Vars{}
	}
	return &repl{a: a, vars: vars, opts: opts, out: a.stdout}
}

func (r *repl) run(ctx context.Context) error {
	cfg := &readline.Config{
		Prompt: colorPrompt.Sprint(appName+"> "),
		Stdin:  readline.NewCancelableStdin(io.NopCloser(r.a.stdin)),
		Stdout: r.a.stdout,
		Stderr: r.a.stderr,
		FuncIsTerminal: func() bool {
			return r.a.interactive()
		},
	}
	if r.a.cfg != nil && r.a.cfg.Dir != "" {
		cfg.HistoryFile = filepath.Join(r.a.cfg.Dir, "history")
	}
	if err := cfg.Init(); err != nil {
		return err
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		switch {
		case err == io.EOF:
			return nil
		case err == readline.ErrInterrupt:
			continue
		case err != nil:
			return fmt.Errorf("readline: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if r.exec(ctx, line) {
			return nil
		}
	}
}

// exec handles one input line and reports whether the loop should stop.
// Errors are printed, never returned.
func (r *repl) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		r.report(r.runLine(ctx, line))
		return false
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(r.out, replHelp)
	case ":set":
		r.report(r.bind(name, rest, func(k, v string) error {
			r.vars[k] = v
			return nil
		}))
	case ":list":
		r.report(r.bind(name, rest, func(k, v string) error {
			items, err := splitList(v)
			if err != nil {
				return fmt.Errorf(":list %s: %w", k, err)
			}
			r.vars[k] = items
			return nil
		}))
	case ":none":
		if rest == "" {
			r.report(errors.New(":none: want a name"))
			break
		}
		r.vars[rest] = nil
	case ":unset":
		delete(r.vars, rest)
	case ":vars":
		for _, k := range sortedKeys(r.vars) {
			fmt.Fprintf(r.out, "%s=%s\n", k, formatVar(r.vars[k]))
		}
	case ":dry":
		switch rest {
		case "on":
			r.opts.dryRun = true
		case "off":
			r.opts.dryRun = false
		default:
			r.report(fmt.Errorf(":dry: want on or off, got %q", rest))
		}
	case ":plan":
		plan, err := cmdline.ParsePlan(rest)
		if err != nil {
			r.report(err)
			break
		}
		writePlanPlain(r.out, plan)
	default:
		r.report(fmt.Errorf("unknown command %s, try :help", name))
	}
	return false
}

func (r *repl) bind(cmd, kv string, set func(k, v string) error) error {
	k, v, err := splitBinding(cmd, kv)
	if err != nil {
		return err
	}
	return set(k, v)
}

func (r *repl) runLine(ctx context.Context, line string) error {
	c, err := r.a.evalLine(line, r.vars)
	if err != nil {
		return err
	}
	return r.a.execute(ctx, "line", c, r.vars, r.opts)
}

func (r *repl) report(err error) {
	if err == nil {
		return
	}
	colorErr.Fprintf(r.a.stderr, "error: %v\n", err)
}
