package invoke

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdmacro/pkg/args"
	"cmdmacro/pkg/cmdline"
)

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func sh(script string) *cmdline.Command {
	return &cmdline.Command{Program: "sh", Args: []string{"-c", script}}
}

func TestOutput_CapturesAndStatus(t *testing.T) {
	requireProgram(t, "sh")

	res := New().Output(context.Background(), sh(`printf 'out\n'; printf err >&2; exit 3`))
	require.NoError(t, res.Err)
	assert.True(t, res.Status.Available())
	assert.True(t, res.Status.Exited())
	assert.False(t, res.Status.Success())
	assert.Equal(t, 3, res.Status.Code())
	assert.Equal(t, "exit status 3", res.Status.String())
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err", string(res.Stderr))
}

func TestOutput_Success(t *testing.T) {
	requireProgram(t, "echo")

	c := cmdline.MustBuild(`echo Hello (name)`, cmdline.Vars{"name": "Steve"})
	res := Output(context.Background(), c)
	require.NoError(t, res.Err)
	assert.True(t, res.Status.Success())
	assert.Equal(t, "Hello Steve\n", string(res.Stdout))
	assert.Same(t, c, res.Command)
}

func TestOutput_SpawnFailure(t *testing.T) {
	res := New().Output(context.Background(), &cmdline.Command{Program: "definitely-not-a-program-7f3a"})
	require.Error(t, res.Err)
	assert.False(t, res.Status.Available())
	assert.False(t, res.Status.Success())
	assert.Equal(t, -1, res.Status.Code())
	assert.Equal(t, "no exit status", res.Status.String())
}

func TestOutput_Tee(t *testing.T) {
	requireProgram(t, "sh")

	var out, errw bytes.Buffer
	iv := New(WithStdio(nil, &out, &errw), WithTee(true))
	res := iv.Output(context.Background(), sh(`echo a; echo b >&2`))
	require.NoError(t, res.Err)
	assert.Equal(t, "a\n", string(res.Stdout))
	assert.Equal(t, "a\n", out.String())
	assert.Equal(t, "b\n", errw.String())
}

func TestStatus_InheritsStdio(t *testing.T) {
	requireProgram(t, "sh")

	var out bytes.Buffer
	iv := New(WithStdio(strings.NewReader("piped"), &out, &out))
	res := iv.Status(context.Background(), sh(`cat; exit 1`))
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Status.Code())
	assert.Equal(t, "piped", out.String())
	assert.Empty(t, res.Stdout)
}

func TestStatus_ContextCancel(t *testing.T) {
	requireProgram(t, "sleep")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := New(WithStdio(nil, nil, nil)).Status(ctx, &cmdline.Command{Program: "sleep", Args: []string{"5"}})
	assert.False(t, res.Status.Success())
	assert.Less(t, res.Duration, 5*time.Second)
}

func TestSpawn_KillAndWait(t *testing.T) {
	requireProgram(t, "sleep")

	child, err := New(WithStdio(nil, nil, nil)).Spawn(context.Background(), &cmdline.Command{Program: "sleep", Args: []string{"30"}})
	require.NoError(t, err)
	assert.Positive(t, child.Pid())

	if name, err := child.Name(); err == nil {
		assert.Contains(t, name, "sleep")
	}

	require.NoError(t, child.Kill())
	res := child.Wait()
	require.NoError(t, res.Err)
	assert.True(t, res.Status.Available())
	assert.False(t, res.Status.Exited())
	assert.False(t, res.Status.Success())
	assert.Same(t, res, child.Wait())
}

func TestSpawn_Failure(t *testing.T) {
	_, err := Spawn(context.Background(), &cmdline.Command{Program: "definitely-not-a-program-7f3a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spawn definitely-not-a-program-7f3a")
}

func TestOptArg(t *testing.T) {
	cmd := exec.Command("git", "log")
	OptArg(cmd, args.Flagged("--author", args.None()))
	OptArg(cmd, args.Flagged("-n", args.Some("5")))
	OptArg(cmd, args.FlaggedValues("--", "a.go", "b.go"))
	assert.Equal(t, []string{"git", "log", "-n", "5", "--", "a.go", "b.go"}, cmd.Args)
}

func TestOutputLine(t *testing.T) {
	requireProgram(t, "echo")

	res, err := OutputLine(context.Background(), `echo Installing (-p packages ?)`, cmdline.Vars{"packages": []string{"cowsay", "emacs"}})
	require.NoError(t, err)
	assert.Equal(t, "Installing -p cowsay emacs\n", string(res.Stdout))

	_, err = OutputLine(context.Background(), `echo (`, nil)
	assert.ErrorIs(t, err, cmdline.ErrSyntax)
}

func TestLogging(t *testing.T) {
	requireProgram(t, "echo")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	New(WithLogger(logger)).Output(context.Background(), &cmdline.Command{Program: "echo", Args: []string{"x"}})

	out := logs.String()
	assert.Contains(t, out, "msg=spawn")
	assert.Contains(t, out, "msg=exit")
	assert.Contains(t, out, "program=echo")
	assert.Contains(t, out, `status="exit status 0"`)
	assert.Contains(t, out, "run=")
}

func TestNewExitStatus(t *testing.T) {
	s := NewExitStatus(0)
	assert.True(t, s.Success())
	assert.Equal(t, "exit status 0", s.String())

	var zero ExitStatus
	assert.False(t, zero.Success())
	assert.False(t, zero.Available())
}
