package lib

import (
	"errors"
	"fmt"
	"testing"

	"cmdmacro/pkg/invoke"
	"cmdmacro/pkg/outcome"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"child status", outcome.Check(invoke.NewExitStatus(7)), 7},
		{"wrapped child status", fmt.Errorf("recipe deploy: %w", outcome.Check(invoke.NewExitStatus(3))), 3},
		{"no status", outcome.Check(invoke.ExitStatus{}), 1},
		{"io failure", &outcome.IOError{Err: errors.New("not found")}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
