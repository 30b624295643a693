package cmdline

import (
	"errors"
	"fmt"

	"cmdmacro/pkg/args"
)

var (
	ErrSyntax      = errors.New("syntax error")
	ErrGroupShape  = errors.New("invalid group")
	ErrNoProgram   = errors.New("missing program")
	ErrUnbound     = errors.New("unbound name")
	ErrNotIterable = args.ErrNotIterable
	ErrNotOptional = args.ErrNotOptional
)

// SyntaxError is a lexing or parsing failure at a known position.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("phase=parse pos=%s: %s: %s", e.Pos, ErrSyntax, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntaxErr(pos Position, format string, a ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, a...)}
}

func shapeErr(phase string, pos Position, format string, a ...any) error {
	return fmt.Errorf("phase=%s pos=%s: %w: %s", phase, pos, ErrGroupShape, fmt.Sprintf(format, a...))
}
