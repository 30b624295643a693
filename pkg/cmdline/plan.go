package cmdline

import (
	"fmt"
	"strings"
)

// Rule is the argument production chosen for a token. Rules are listed in
// the order they are tried.
type Rule uint8

const (
	RuleEnv      Rule = iota + 1 // (var(NAME))
	RuleFlagged                  // (flag value ?)
	RuleOptional                 // (value ?)
	RuleSpread                   // (value ..)
	RuleValue                    // (value)
	RuleLiteral                  // word or quoted literal
)

func (r Rule) String() string {
	switch r {
	case RuleEnv:
		return "env"
	case RuleFlagged:
		return "flagged"
	case RuleOptional:
		return "optional"
	case RuleSpread:
		return "spread"
	case RuleValue:
		return "value"
	case RuleLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

type SourceKind uint8

const (
	SourceLiteral SourceKind = iota
	SourceEnv
	SourceRef
	SourceValue
)

// Source is where a production gets its value from.
type Source struct {
	Kind  SourceKind
	Text  string // literal text, variable or binding name
	Value any    // SourceValue only
}

// Production is one compiled argument token.
type Production struct {
	Rule    Rule
	Flag    Source // RuleFlagged only
	Operand Source
	Pos     Position
}

// Plan is a compiled command line: the program followed by one production
// per argument token, in source order.
type Plan struct {
	Program Production
	Args    []Production
}

// Compile classifies tokens into a Plan. The first token is the program and
// must produce exactly one string.
func Compile(tokens ...Token) (*Plan, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("phase=compile: %w", ErrNoProgram)
	}
	prog, err := compileProgram(tokens[0])
	if err != nil {
		return nil, err
	}
	plan := &Plan{Program: prog, Args: make([]Production, 0, len(tokens)-1)}
	for _, tok := range tokens[1:] {
		prod, err := compileArg(tok)
		if err != nil {
			return nil, err
		}
		plan.Args = append(plan.Args, prod)
	}
	return plan, nil
}

// ParsePlan is Parse followed by Compile.
func ParsePlan(line string) (*Plan, error) {
	toks, err := Parse(line)
	if err != nil {
		return nil, err
	}
	return Compile(toks...)
}

func compileProgram(tok Token) (Production, error) {
	if tok.Kind == TokenGroup && tok.Marker != MarkerNone {
		return Production{}, shapeErr("compile", tok.Pos, "program %s cannot be optional or spread", tok)
	}
	return compileArg(tok)
}

func compileArg(tok Token) (Production, error) {
	switch tok.Kind {
	case TokenWord, TokenQuoted:
		return Production{Rule: RuleLiteral, Operand: Source{Kind: SourceLiteral, Text: tok.Text}, Pos: tok.Pos}, nil
	case TokenEnv:
		return Production{Rule: RuleEnv, Operand: Source{Kind: SourceEnv, Text: tok.Text}, Pos: tok.Pos}, nil
	case TokenValue:
		return Production{Rule: RuleValue, Operand: Source{Kind: SourceValue, Value: tok.Value}, Pos: tok.Pos}, nil
	case TokenGroup:
		return compileGroup(tok)
	}
	return Production{}, shapeErr("compile", tok.Pos, "unknown token kind %d", tok.Kind)
}

func compileGroup(tok Token) (Production, error) {
	prod := Production{Pos: tok.Pos}
	n := len(tok.Items)
	switch {
	case n == 0:
		return prod, shapeErr("compile", tok.Pos, "empty group")
	case n > 2:
		return prod, shapeErr("compile", tok.Pos, "%s has %d items, want a flag and an operand at most", tok, n)
	}

	var err error
	switch tok.Marker {
	case MarkerNone:
		if n == 2 {
			return prod, shapeErr("compile", tok.Pos, "flag %s in %s needs the ? marker", tok.Items[0], tok)
		}
		prod.Operand, err = operandSource(tok.Items[0])
		prod.Rule = RuleValue
		if prod.Operand.Kind == SourceEnv {
			prod.Rule = RuleEnv
		}
	case MarkerSpread:
		if n == 2 {
			return prod, shapeErr("compile", tok.Pos, "spread %s takes no flag", tok)
		}
		prod.Rule = RuleSpread
		prod.Operand, err = refSource(tok.Items[0], tok)
	case MarkerOptional:
		if n == 1 {
			prod.Rule = RuleOptional
			prod.Operand, err = refSource(tok.Items[0], tok)
			break
		}
		prod.Rule = RuleFlagged
		if prod.Flag, err = flagSource(tok.Items[0]); err != nil {
			return prod, err
		}
		prod.Operand, err = refSource(tok.Items[1], tok)
	default:
		return prod, shapeErr("compile", tok.Pos, "unknown marker %d", tok.Marker)
	}
	return prod, err
}

// operandSource resolves the operand of a bare group, where a word names
// a binding.
func operandSource(tok Token) (Source, error) {
	switch tok.Kind {
	case TokenWord:
		return Source{Kind: SourceRef, Text: tok.Text}, nil
	case TokenQuoted:
		return Source{Kind: SourceLiteral, Text: tok.Text}, nil
	case TokenEnv:
		return Source{Kind: SourceEnv, Text: tok.Text}, nil
	case TokenValue:
		return Source{Kind: SourceValue, Value: tok.Value}, nil
	case TokenGroup:
		if tok.Marker == MarkerNone && len(tok.Items) == 1 {
			return operandSource(tok.Items[0])
		}
	}
	return Source{}, shapeErr("compile", tok.Pos, "%s does not produce a single value", tok)
}

// flagSource resolves a flag, where a word is taken literally.
func flagSource(tok Token) (Source, error) {
	switch tok.Kind {
	case TokenWord, TokenQuoted:
		return Source{Kind: SourceLiteral, Text: tok.Text}, nil
	}
	return operandSource(tok)
}

// refSource resolves the operand of a marked group, which must be a
// binding or a live value.
func refSource(tok, group Token) (Source, error) {
	switch tok.Kind {
	case TokenWord:
		return Source{Kind: SourceRef, Text: tok.Text}, nil
	case TokenValue:
		return Source{Kind: SourceValue, Value: tok.Value}, nil
	case TokenGroup:
		if tok.Marker == MarkerNone && len(tok.Items) == 1 {
			return refSource(tok.Items[0], group)
		}
	}
	return Source{}, shapeErr("compile", group.Pos, "%s in %s must name a binding", tok, group)
}

func (s Source) String() string {
	switch s.Kind {
	case SourceLiteral:
		return quoteLiteral(s.Text)
	case SourceEnv:
		return "var(" + s.Text + ")"
	case SourceRef:
		return s.Text
	case SourceValue:
		return fmt.Sprintf("<%T>", s.Value)
	}
	return "<invalid>"
}

func (s Source) flagString() string {
	switch s.Kind {
	case SourceLiteral:
		return renderWord(s.Text, true)
	case SourceRef:
		return "(" + s.Text + ")"
	}
	return s.String()
}

// String renders the production in the surface syntax Parse accepts.
func (p Production) String() string {
	switch p.Rule {
	case RuleLiteral:
		return renderWord(p.Operand.Text, false)
	case RuleEnv:
		return "(" + p.Operand.String() + ")"
	case RuleValue:
		return "(" + p.Operand.String() + ")"
	case RuleOptional:
		return "(" + p.Operand.String() + " ?)"
	case RuleFlagged:
		return "(" + p.Flag.flagString() + " " + p.Operand.String() + " ?)"
	case RuleSpread:
		return "(" + p.Operand.String() + " ..)"
	}
	return "<invalid>"
}

func (p *Plan) String() string {
	parts := make([]string, 0, len(p.Args)+1)
	parts = append(parts, p.Program.String())
	for _, a := range p.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

type Usage uint8

const (
	UsageValue Usage = iota
	UsageOptional
	UsageFlagged
	UsageSpread
)

func (u Usage) String() string {
	switch u {
	case UsageValue:
		return "value"
	case UsageOptional:
		return "optional"
	case UsageFlagged:
		return "flagged"
	case UsageSpread:
		return "spread"
	default:
		return "unknown"
	}
}

// rank orders usages by how few binding values satisfy them.
func (u Usage) rank() int {
	switch u {
	case UsageSpread:
		return 3
	case UsageValue:
		return 2
	case UsageOptional:
		return 1
	}
	return 0
}

// Reference is a binding name used by a plan.
type Reference struct {
	Name  string
	Usage Usage
	Pos   Position
}

// Refs lists the bindings the plan reads, once each, in order of first use.
// A name used in several ways reports the most constrained usage: spread
// over value over optional over flagged.
func (p *Plan) Refs() []Reference {
	var refs []Reference
	index := map[string]int{}
	add := func(s Source, u Usage, pos Position) {
		if s.Kind != SourceRef {
			return
		}
		if i, ok := index[s.Text]; ok {
			if u.rank() > refs[i].Usage.rank() {
				refs[i].Usage = u
			}
			return
		}
		index[s.Text] = len(refs)
		refs = append(refs, Reference{Name: s.Text, Usage: u, Pos: pos})
	}

	add(p.Program.Operand, UsageValue, p.Program.Pos)
	for _, a := range p.Args {
		switch a.Rule {
		case RuleFlagged:
			add(a.Flag, UsageValue, a.Pos)
			add(a.Operand, UsageFlagged, a.Pos)
		case RuleOptional:
			add(a.Operand, UsageOptional, a.Pos)
		case RuleSpread:
			add(a.Operand, UsageSpread, a.Pos)
		default:
			add(a.Operand, UsageValue, a.Pos)
		}
	}
	return refs
}

// Envs lists the environment variables the plan reads, in order of first use.
func (p *Plan) Envs() []string {
	var names []string
	seen := map[string]struct{}{}
	visit := func(s Source) {
		if s.Kind != SourceEnv {
			return
		}
		if _, ok := seen[s.Text]; !ok {
			seen[s.Text] = struct{}{}
			names = append(names, s.Text)
		}
	}
	visit(p.Program.Operand)
	for _, a := range p.Args {
		visit(a.Flag)
		visit(a.Operand)
	}
	return names
}
