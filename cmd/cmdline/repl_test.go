package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdmacro/pkg/cmdline"
)

func newTestRepl(t *testing.T) (*repl, *testApp) {
	t.Helper()
	ta := newTestApp(t, nil)
	ta.configDir = "/cfg"
	require.NoError(t, ta.setup())
	return newRepl(ta.app, nil, runOpts{dryRun: true}), ta
}

func TestRepl_Bindings(t *testing.T) {
	r, ta := newTestRepl(t)
	ctx := context.Background()

	assert.False(t, r.exec(ctx, ":set name=Steve"))
	assert.False(t, r.exec(ctx, ":list pkgs=cowsay 'GNU emacs'"))
	assert.False(t, r.exec(ctx, ":none title"))
	assert.Equal(t, cmdline.Vars{
		"name":  "Steve",
		"pkgs":  []string{"cowsay", "GNU emacs"},
		"title": nil,
	}, r.vars)

	assert.False(t, r.exec(ctx, ":unset title"))
	assert.False(t, r.exec(ctx, ":vars"))
	assert.Equal(t, "name=Steve\npkgs=[cowsay GNU emacs]\n", ta.out.String())
	assert.Empty(t, ta.err.String())
}

func TestRepl_RunLine(t *testing.T) {
	r, ta := newTestRepl(t)
	ctx := context.Background()

	r.exec(ctx, ":set name=Steve")
	r.exec(ctx, `echo Hello ("Lord" name ?)`)
	assert.Contains(t, ta.out.String(), "[dry-run] line\n")
	assert.Contains(t, ta.out.String(), "  command: echo Hello Lord Steve\n")

	ta.out.Reset()
	r.exec(ctx, "echo (missing)")
	assert.Empty(t, ta.out.String())
	assert.Contains(t, ta.err.String(), "error: ")
	assert.Contains(t, ta.err.String(), "missing")
}

func TestRepl_Commands(t *testing.T) {
	r, ta := newTestRepl(t)
	ctx := context.Background()

	assert.False(t, r.exec(ctx, "   "))
	assert.False(t, r.exec(ctx, ":dry off"))
	assert.False(t, r.opts.dryRun)
	assert.False(t, r.exec(ctx, ":dry on"))
	assert.True(t, r.opts.dryRun)

	r.exec(ctx, ":dry maybe")
	assert.Contains(t, ta.err.String(), `want on or off, got "maybe"`)

	r.exec(ctx, ":bogus")
	assert.Contains(t, ta.err.String(), "unknown command :bogus")

	r.exec(ctx, ":set novalue")
	assert.Contains(t, ta.err.String(), `:set "novalue": want name=value`)

	r.exec(ctx, ":none")
	assert.Contains(t, ta.err.String(), ":none: want a name")

	ta.out.Reset()
	r.exec(ctx, ":plan echo (x ?)")
	assert.Equal(t, "program  literal   echo\n1        optional  (x ?)\nrefs: x (optional)\n", ta.out.String())

	ta.out.Reset()
	r.exec(ctx, ":help")
	assert.Contains(t, ta.out.String(), ":quit, :q")

	assert.True(t, r.exec(ctx, ":quit"))
	assert.True(t, r.exec(ctx, ":q"))
}
