package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"cmdmacro/pkg/cmdline"
	"cmdmacro/pkg/invoke"
)

// app carries the state shared by all subcommands. Tests swap the
// filesystem, stdio and environment.
type app struct {
	fs          afero.Fs
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	env         cmdline.Env
	v           *viper.Viper
	interactive func() bool

	cfg *Config
	log *slog.Logger

	configDir  string
	recipeDirs []string
	files      []string
}

func newApp() *app {
	return &app{
		fs:          afero.NewOsFs(),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		env:         cmdline.OSEnv{},
		v:           viper.New(),
		interactive: isTerminal,
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Build and run commands from terminal-line templates",
		Long: appName + ` builds a program invocation from a command line template.

Words and quoted literals are taken as they are. Parenthesized groups pull
in values:

  (name)          value bound to name
  (var(HOME))     environment variable, empty when unset
  (name ?)        value when present, nothing otherwise
  (-p names ?)    flag followed by the value(s) when present
  (names ..)      one argument per element`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "",
		"config directory (default: $"+envConfigDir+", $XDG_CONFIG_HOME/"+appName+" or ~/.config/"+appName+")")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("encoding", "", "character set of captured output, e.g. latin1")
	pf.StringArrayVar(&a.recipeDirs, "recipe-dir", nil, "additional recipe directory (repeatable)")
	pf.StringArrayVarP(&a.files, "file", "f", nil, "additional recipe file (repeatable)")
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("encoding", pf.Lookup("encoding"))

	root.AddCommand(
		newRunCmd(a),
		newPlanCmd(a),
		newRecipeCmd(a),
		newReplCmd(a),
		newBrowseCmd(a),
		newInitCmd(a),
		newExampleCmd(a),
	)
	return root
}

func (a *app) setup() error {
	dir := a.configDir
	if dir == "" {
		var err error
		if dir, err = resolveConfigDir(); err != nil {
			return err
		}
	}
	a.v.SetFs(a.fs)
	cfg, err := loadConfig(a.v, dir)
	if err != nil {
		return err
	}
	lvl, err := cfg.logLevel()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: lvl}))
	a.log.Debug("config loaded", "dir", dir, "encoding", cfg.Encoding, "recipe_dirs", cfg.RecipeDirs)
	return nil
}

func (a *app) invoker() *invoke.Invoker {
	return invoke.New(
		invoke.WithStdio(a.stdin, a.stdout, a.stderr),
		invoke.WithLogger(a.log),
	)
}
