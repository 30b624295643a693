package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var b bindingFlags
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [flags] -- LINE...",
		Short: "Build a command from a line and run it",
		Long: `Build a command from a line and run it.

The arguments are joined with spaces into one line. Quote the whole line
to keep literals with spaces intact:

  ` + appName + ` run --set name=Steve 'echo Hello ("Lord" name ?)'
  ` + appName + ` run --list 'pkgs=cowsay emacs' -- echo Installing '(-p pkgs ?)'

The exit code of the command becomes the exit code of ` + appName + `.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			vars, err := b.vars()
			if err != nil {
				return err
			}
			c, err := a.evalLine(line, vars)
			if err != nil {
				return err
			}
			return a.execute(cmd.Context(), "line", c, vars, opts)
		},
	}
	b.register(cmd.Flags())
	opts.register(cmd.Flags())
	return cmd
}
