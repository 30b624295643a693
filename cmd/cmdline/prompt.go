package main

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"cmdmacro/pkg/cmdline"
)

// missingRefs returns the bindings plan reads that vars does not define.
func missingRefs(plan *cmdline.Plan, vars cmdline.Vars) []cmdline.Reference {
	var missing []cmdline.Reference
	for _, ref := range plan.Refs() {
		if _, ok := vars[ref.Name]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing
}

// promptMissing asks for every unbound name on a terminal. Elsewhere it
// does nothing and evaluation reports the first unbound name.
func (a *app) promptMissing(plan *cmdline.Plan, vars cmdline.Vars) error {
	missing := missingRefs(plan, vars)
	if len(missing) == 0 || !a.interactive() {
		return nil
	}

	values := make([]string, len(missing))
	fields := make([]huh.Field, len(missing))
	for i, ref := range missing {
		fields[i] = huh.NewInput().
			Title(ref.Name).
			Description(promptHint(ref.Usage)).
			Value(&values[i])
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	for i, ref := range missing {
		v, err := promptValue(ref.Usage, values[i])
		if err != nil {
			return fmt.Errorf("prompt %s: %w", ref.Name, err)
		}
		vars[ref.Name] = v
	}
	return nil
}

func promptHint(u cmdline.Usage) string {
	switch u {
	case cmdline.UsageOptional:
		return "optional, leave empty to omit"
	case cmdline.UsageFlagged:
		return "optional, space-separated for several values, empty to omit the flag"
	case cmdline.UsageSpread:
		return "space-separated list"
	default:
		return "value"
	}
}

// promptValue converts typed text to a binding suited to how it is used.
func promptValue(u cmdline.Usage, s string) (any, error) {
	switch u {
	case cmdline.UsageOptional:
		if s == "" {
			return nil, nil
		}
		return s, nil
	case cmdline.UsageFlagged:
		items, err := splitList(s)
		if err != nil {
			return nil, err
		}
		switch len(items) {
		case 0:
			return nil, nil
		case 1:
			return items[0], nil
		}
		return items, nil
	case cmdline.UsageSpread:
		return splitList(s)
	}
	return s, nil
}
