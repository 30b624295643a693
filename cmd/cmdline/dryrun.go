package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"cmdmacro/pkg/args"
	"cmdmacro/pkg/cmdline"
)

// printDryRun prints the command that would be executed.
func printDryRun(w io.Writer, label string, cmd *cmdline.Command, vars cmdline.Vars) {
	fmt.Fprintf(w, "[dry-run] %s\n", label)
	fmt.Fprintf(w, "  command: %s\n", cmd)
	if len(vars) > 0 {
		fmt.Fprintln(w, "  vars:")
		for _, k := range sortedKeys(vars) {
			fmt.Fprintf(w, "    %s=%s\n", k, formatVar(vars[k]))
		}
	}
	fmt.Fprintln(w, "  argv:")
	for i, a := range cmd.Argv() {
		fmt.Fprintf(w, "    [%d] %q\n", i, a)
	}
}

// formatVar renders a binding for display. One-shot values such as
// channels and sequences are not drained.
func formatVar(v any) string {
	switch x := v.(type) {
	case nil:
		return "<none>"
	case []string:
		return "[" + strings.Join(x, " ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatVar(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	if args.IsIterable(v) {
		return fmt.Sprintf("<%T>", v)
	}
	if opt, err := args.OptOf(v); err == nil {
		if s, ok := opt.Get(); ok {
			return s
		}
		return "<none>"
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m cmdline.Vars) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
