package main

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/spf13/pflag"

	"cmdmacro/pkg/cmdline"
)

// bindingFlags are the --set, --list and --none flags shared by every
// command that evaluates a line.
type bindingFlags struct {
	sets  []string
	lists []string
	nones []string
}

func (b *bindingFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVar(&b.sets, "set", nil, "bind name=value (repeatable)")
	fs.StringArrayVar(&b.lists, "list", nil, "bind name to a shell-split list, e.g. --list 'pkgs=cowsay emacs' (repeatable)")
	fs.StringArrayVar(&b.nones, "none", nil, "bind name to an absent value (repeatable)")
}

func (b *bindingFlags) vars() (cmdline.Vars, error) {
	return parseBindings(b.sets, b.lists, b.nones)
}

// parseBindings turns name=value pairs into vars. Later bindings of the
// same name win, in the order sets, lists, nones.
func parseBindings(sets, lists, nones []string) (cmdline.Vars, error) {
	vars := cmdline.Vars{}
	for _, kv := range sets {
		k, v, err := splitBinding("--set", kv)
		if err != nil {
			return nil, err
		}
		vars[k] = v
	}
	for _, kv := range lists {
		k, v, err := splitBinding("--list", kv)
		if err != nil {
			return nil, err
		}
		items, err := splitList(v)
		if err != nil {
			return nil, fmt.Errorf("--list %s: %w", k, err)
		}
		vars[k] = items
	}
	for _, k := range nones {
		if k == "" {
			return nil, fmt.Errorf("--none: empty name")
		}
		vars[k] = nil
	}
	return vars, nil
}

func splitBinding(flag, kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("%s %q: want name=value", flag, kv)
	}
	return k, v, nil
}

// splitList splits s the way a POSIX shell splits words. The result is
// never nil so an empty list stays a list.
func splitList(s string) ([]string, error) {
	items, err := shlex.Split(s, true)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
