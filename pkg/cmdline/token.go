package cmdline

import (
	"fmt"
	"strconv"
	"strings"
)

// Position locates a token in the source line. The zero Position belongs to
// tokens built in Go rather than parsed.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based
	Column int // 1-based, in runes
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type TokenKind uint8

const (
	TokenWord TokenKind = iota
	TokenQuoted
	TokenEnv
	TokenGroup
	TokenValue
)

func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenQuoted:
		return "quoted"
	case TokenEnv:
		return "env"
	case TokenGroup:
		return "group"
	case TokenValue:
		return "value"
	default:
		return "unknown"
	}
}

// Marker is the trailing marker of a group.
type Marker uint8

const (
	MarkerNone Marker = iota
	MarkerOptional
	MarkerSpread
)

func (m Marker) String() string {
	switch m {
	case MarkerOptional:
		return "?"
	case MarkerSpread:
		return ".."
	default:
		return ""
	}
}

// Token is one unit of a command line.
//
// Word and Quoted carry their spelling in Text, Env carries the variable
// name. A Group holds its Items (an optional flag followed by the operand)
// and its Marker. Value wraps a Go value supplied by the caller instead of
// a name to look up.
type Token struct {
	Kind   TokenKind
	Text   string
	Items  []Token
	Marker Marker
	Value  any
	Pos    Position
}

// Word is a bare word. Outside a group it is emitted as is; as a group
// operand it names a binding.
func Word(s string) Token { return Token{Kind: TokenWord, Text: s} }

// Quoted is a literal whose text is kept verbatim.
func Quoted(s string) Token { return Token{Kind: TokenQuoted, Text: s} }

// EnvRef reads the environment variable name, "" when unset.
func EnvRef(name string) Token { return Token{Kind: TokenEnv, Text: name} }

// Group builds a parenthesized group from its items.
func Group(m Marker, items ...Token) Token {
	return Token{Kind: TokenGroup, Items: items, Marker: m}
}

// Ref is (name): the binding's value as one argument.
func Ref(name string) Token { return Group(MarkerNone, Word(name)) }

// Spread is (name ..): one argument per element of the binding.
func Spread(name string) Token { return Group(MarkerSpread, Word(name)) }

// Opt is (name ?): the binding's value when present.
func Opt(name string) Token { return Group(MarkerOptional, Word(name)) }

// FlagOpt is (flag name ?): flag and value(s) when present.
func FlagOpt(flag, name string) Token {
	return Group(MarkerOptional, Quoted(flag), Word(name))
}

// Value is a live Go value used as one argument.
func Value(v any) Token { return Token{Kind: TokenValue, Value: v} }

// SpreadOf is Spread over a live value.
func SpreadOf(v any) Token { return Group(MarkerSpread, Value(v)) }

// OptOf is Opt over a live value.
func OptOf(v any) Token { return Group(MarkerOptional, Value(v)) }

// FlagOptOf is FlagOpt over a live value.
func FlagOptOf(flag string, v any) Token {
	return Group(MarkerOptional, Quoted(flag), Value(v))
}

// String renders the token in surface syntax.
func (t Token) String() string {
	switch t.Kind {
	case TokenWord:
		return t.Text
	case TokenQuoted:
		return quoteLiteral(t.Text)
	case TokenEnv:
		return "var(" + t.Text + ")"
	case TokenValue:
		return fmt.Sprintf("<%T>", t.Value)
	case TokenGroup:
		parts := make([]string, 0, len(t.Items)+1)
		for _, it := range t.Items {
			parts = append(parts, it.String())
		}
		if t.Marker != MarkerNone {
			parts = append(parts, t.Marker.String())
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "<invalid>"
}

func quoteLiteral(s string) string { return strconv.Quote(s) }

// renderWord spells a literal so that Parse reads it back unchanged.
func renderWord(s string, inGroup bool) string {
	special := " \t\r\n()\"'"
	if inGroup {
		special += ","
	}
	if s == "" || strings.ContainsAny(s, special) || (inGroup && isMarkerWord(s)) {
		return quoteLiteral(s)
	}
	return s
}
