package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"cmdmacro/pkg/cmdline"
	"cmdmacro/pkg/outcome"
)

type runOpts struct {
	dryRun  bool
	capture bool
}

func (o *runOpts) register(fs *pflag.FlagSet) {
	fs.BoolVar(&o.dryRun, "dry-run", false, "print the command instead of running it")
	fs.BoolVar(&o.capture, "capture", false, "capture the output and print it decoded, trailing newlines removed")
}

// execute runs cmd and turns a failed process into an error carrying its
// exit status.
func (a *app) execute(ctx context.Context, label string, cmd *cmdline.Command, vars cmdline.Vars, opts runOpts) error {
	if opts.dryRun {
		printDryRun(a.stdout, label, cmd, vars)
		return nil
	}

	iv := a.invoker()
	if !opts.capture {
		_, err := outcome.OkNoMsg(iv.Status(ctx, cmd))
		return err
	}

	res := iv.Output(ctx, cmd)
	if res.Err == nil {
		dec, err := a.cfg.decoder()
		if err != nil {
			return err
		}
		text, err := dec.Text(res.Stdout)
		if err != nil {
			a.log.Warn("output is not valid text, decoding lossily", "encoding", dec.Name(), "err", err)
			text = dec.Lossy(res.Stdout)
		}
		if text != "" {
			fmt.Fprintln(a.stdout, text)
		}
	}
	_, err := outcome.Ok(res)
	return err
}

// evalLine compiles line, prompts for unbound names and evaluates it.
func (a *app) evalLine(line string, vars cmdline.Vars) (*cmdline.Command, error) {
	plan, err := cmdline.ParsePlan(line)
	if err != nil {
		return nil, err
	}
	if err := a.promptMissing(plan, vars); err != nil {
		return nil, err
	}
	return plan.Eval(cmdline.Scope{Vars: vars, Env: a.env})
}
