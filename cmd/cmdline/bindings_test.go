package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdmacro/pkg/cmdline"
)

func TestParseBindings(t *testing.T) {
	vars, err := parseBindings(
		[]string{"name=Steve", "eq=a=b", "empty="},
		[]string{"pkgs=cowsay 'GNU emacs'", "none="},
		[]string{"name"},
	)
	require.NoError(t, err)
	assert.Equal(t, cmdline.Vars{
		"name":  nil,
		"eq":    "a=b",
		"empty": "",
		"pkgs":  []string{"cowsay", "GNU emacs"},
		"none":  []string{},
	}, vars)

	_, err = parseBindings([]string{"=x"}, nil, nil)
	assert.ErrorContains(t, err, `--set "=x": want name=value`)
	_, err = parseBindings(nil, []string{"pkgs='open"}, nil)
	assert.ErrorContains(t, err, "--list pkgs")
	_, err = parseBindings(nil, nil, []string{""})
	assert.ErrorContains(t, err, "--none: empty name")
}

func TestPromptValue(t *testing.T) {
	tests := []struct {
		usage cmdline.Usage
		in    string
		want  any
	}{
		{cmdline.UsageValue, "", ""},
		{cmdline.UsageValue, "a b", "a b"},
		{cmdline.UsageOptional, "", nil},
		{cmdline.UsageOptional, "x", "x"},
		{cmdline.UsageFlagged, "", nil},
		{cmdline.UsageFlagged, "one", "one"},
		{cmdline.UsageFlagged, "a 'b c'", []string{"a", "b c"}},
		{cmdline.UsageSpread, "", []string{}},
		{cmdline.UsageSpread, "a b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got, err := promptValue(tt.usage, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %q", tt.usage, tt.in)
	}
}

func TestMissingRefs(t *testing.T) {
	plan, err := cmdline.ParsePlan("cp (src ..) (-t dest ?) (dest ?) (mode)")
	require.NoError(t, err)

	missing := missingRefs(plan, cmdline.Vars{"src": []string{"a"}, "mode": nil})
	require.Len(t, missing, 1)
	assert.Equal(t, "dest", missing[0].Name)

	assert.Empty(t, missingRefs(plan, cmdline.Vars{"src": nil, "dest": nil, "mode": nil}))
}

func TestFormatVar(t *testing.T) {
	ch := make(chan string)
	tests := []struct {
		in   any
		want string
	}{
		{nil, "<none>"},
		{"x", "x"},
		{42, "42"},
		{[]string{"a", "b"}, "[a b]"},
		{[]any{"a", nil, 3}, "[a <none> 3]"},
		{ch, "<chan string>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVar(tt.in))
	}
}
