package args

import (
	"iter"
	"slices"
)

// Kind discriminates the variants of Shape.
type Kind uint8

const (
	KindPlain Kind = iota
	KindFlagged
	KindFlaggedList
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindFlagged:
		return "flagged"
	case KindFlaggedList:
		return "flagged-list"
	default:
		return "unknown"
	}
}

// Shape is an optional argument waiting to be resolved into zero or more
// argument strings. Build one with Plain, Flagged or FlaggedList.
type Shape struct {
	kind  Kind
	flag  string
	value Opt
	seq   iter.Seq[string]
}

// Plain is a bare optional: one argument when present, none otherwise.
func Plain(v Opt) Shape {
	return Shape{kind: KindPlain, value: v}
}

// Flagged is a flag followed by its value, both dropped when v is absent.
func Flagged(flag string, v Opt) Shape {
	return Shape{kind: KindFlagged, flag: flag, value: v}
}

// FlaggedList is a flag followed by every element of seq. When seq yields
// nothing the flag is dropped too. seq is ranged over exactly once.
func FlaggedList(flag string, seq iter.Seq[string]) Shape {
	return Shape{kind: KindFlaggedList, flag: flag, seq: seq}
}

// FlaggedValues is FlaggedList over a fixed set of values.
func FlaggedValues(flag string, values ...string) Shape {
	return FlaggedList(flag, slices.Values(values))
}

func (s Shape) Kind() Kind   { return s.kind }
func (s Shape) Flag() string { return s.flag }

// Resolve returns the argument strings s contributes.
func Resolve(s Shape) []string {
	var l List
	return l.OptArg(s).Strings()
}
