package invoke

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"cmdmacro/pkg/args"
	"cmdmacro/pkg/cmdline"
)

// Result is what running a command produced.
//
// Err is set only when the process could not be started or waited for. A
// process that ran and exited non-zero has a nil Err and a non-successful
// Status.
type Result struct {
	Command  *cmdline.Command
	Status   ExitStatus
	Stdout   []byte
	Stderr   []byte
	Err      error
	Duration time.Duration
}

// Invoker runs built commands as child processes.
type Invoker struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Tee streams captured output to Stdout and Stderr as well.
	Tee    bool
	Logger *slog.Logger
}

type Option func(*Invoker)

func WithLogger(l *slog.Logger) Option { return func(iv *Invoker) { iv.Logger = l } }

func WithStdio(in io.Reader, out, errw io.Writer) Option {
	return func(iv *Invoker) {
		iv.Stdin, iv.Stdout, iv.Stderr = in, out, errw
	}
}

func WithTee(tee bool) Option { return func(iv *Invoker) { iv.Tee = tee } }

// New returns an Invoker wired to the process's stdio.
func New(opts ...Option) *Invoker {
	iv := &Invoker{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	for _, o := range opts {
		o(iv)
	}
	return iv
}

// Default is the Invoker behind the package-level functions.
var Default = New()

// Command returns an exec.Cmd for c bound to ctx.
func Command(ctx context.Context, c *cmdline.Command) *exec.Cmd {
	return exec.CommandContext(ctx, c.Program, c.Args...)
}

// OptArg appends the arguments shape resolves to onto cmd.
func OptArg(cmd *exec.Cmd, shape args.Shape) *exec.Cmd {
	cmd.Args = append(cmd.Args, args.Resolve(shape)...)
	return cmd
}

// Output runs c with stdout and stderr captured.
func (iv *Invoker) Output(ctx context.Context, c *cmdline.Command) *Result {
	cmd := Command(ctx, c)
	var stdout, stderr bytes.Buffer
	if iv.Tee {
		cmd.Stdout = io.MultiWriter(&stdout, iv.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, iv.Stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	res := iv.run(cmd, c)
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	return res
}

// Status runs c with the invoker's stdio and returns its exit status.
func (iv *Invoker) Status(ctx context.Context, c *cmdline.Command) *Result {
	cmd := Command(ctx, c)
	iv.inherit(cmd)
	return iv.run(cmd, c)
}

func (iv *Invoker) inherit(cmd *exec.Cmd) {
	cmd.Stdin = iv.Stdin
	cmd.Stdout = iv.Stdout
	cmd.Stderr = iv.Stderr
}

func (iv *Invoker) logger() *slog.Logger {
	if iv.Logger != nil {
		return iv.Logger
	}
	return slog.Default()
}

func (iv *Invoker) run(cmd *exec.Cmd, c *cmdline.Command) *Result {
	log := iv.logger().With("run", uuid.NewString(), "program", c.Program)
	log.Debug("spawn", "argc", len(c.Args))

	start := time.Now()
	err := cmd.Run()
	res := newResult(c, cmd.ProcessState, err)
	res.Duration = time.Since(start)

	logExit(log, res)
	return res
}

func newResult(c *cmdline.Command, ps *os.ProcessState, err error) *Result {
	res := &Result{Command: c, Status: statusOf(ps)}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		res.Err = err
	}
	return res
}

func logExit(log *slog.Logger, res *Result) {
	if res.Err != nil {
		log.Debug("failed", "err", res.Err, "duration", res.Duration)
		return
	}
	log.Debug("exit", "status", res.Status.String(), "duration", res.Duration)
}

func Output(ctx context.Context, c *cmdline.Command) *Result { return Default.Output(ctx, c) }

func Status(ctx context.Context, c *cmdline.Command) *Result { return Default.Status(ctx, c) }

func Spawn(ctx context.Context, c *cmdline.Command) (*Child, error) { return Default.Spawn(ctx, c) }

// OutputLine builds line against vars and the process environment and runs
// it with output captured.
func OutputLine(ctx context.Context, line string, vars cmdline.Vars) (*Result, error) {
	c, err := cmdline.Build(line, vars)
	if err != nil {
		return nil, err
	}
	return Output(ctx, c), nil
}
