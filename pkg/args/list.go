package args

import (
	"iter"
	"slices"
)

// List is an ordered argument list under construction. The zero value is
// an empty list ready to use.
type List struct {
	items []string
}

func NewList(items ...string) *List {
	return &List{items: slices.Clone(items)}
}

// Arg appends one argument.
func (l *List) Arg(a string) *List {
	l.items = append(l.items, a)
	return l
}

// Args appends every element of seq in order.
func (l *List) Args(seq iter.Seq[string]) *List {
	for a := range seq {
		l.items = append(l.items, a)
	}
	return l
}

// OptArg appends whatever the shape resolves to.
//
//	Plain(None)               -> nothing
//	Plain(Some(v))            -> v
//	Flagged(f, None)          -> nothing
//	Flagged(f, Some(v))       -> f v
//	FlaggedList(f, [])        -> nothing
//	FlaggedList(f, [v1 v2..]) -> f v1 v2 ..
func (l *List) OptArg(s Shape) *List {
	switch s.kind {
	case KindPlain:
		if v, ok := s.value.Get(); ok {
			l.items = append(l.items, v)
		}
	case KindFlagged:
		if v, ok := s.value.Get(); ok {
			l.items = append(l.items, s.flag, v)
		}
	case KindFlaggedList:
		if s.seq == nil {
			return l
		}
		flagged := false
		for v := range s.seq {
			if !flagged {
				l.items = append(l.items, s.flag)
				flagged = true
			}
			l.items = append(l.items, v)
		}
	}
	return l
}

func (l *List) Len() int { return len(l.items) }

// Strings returns a copy of the arguments.
func (l *List) Strings() []string { return slices.Clone(l.items) }

func (l *List) All() iter.Seq[string] { return slices.Values(l.items) }
