package cmdline

import "strings"

// Parse reads a command line into tokens.
//
// Outside parens every word or quoted literal is one token taken literally.
// A parenthesized group holds an operand, optionally preceded by a flag, and
// an optional trailing marker:
//
//	(name)          value of a binding
//	(var(HOME))     environment variable, "" when unset
//	(name ?)        binding when present
//	(-p name ?)     flag and binding when present
//	(name ..)       one argument per element
//
// Markers may be attached to the operand, as in (name?) and (name..), and
// items inside a group may be separated by commas.
func Parse(line string) ([]Token, error) {
	p := &parser{lx: newLexer(line)}
	var toks []Token
	for {
		lx, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		switch lx.kind {
		case lexEOF:
			return toks, nil
		case lexWord:
			toks = append(toks, Token{Kind: TokenWord, Text: lx.text, Pos: lx.pos})
		case lexString:
			toks = append(toks, Token{Kind: TokenQuoted, Text: lx.text, Pos: lx.pos})
		case lexLParen:
			tok, err := p.group(lx.pos)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case lexRParen:
			return nil, syntaxErr(lx.pos, "unbalanced ')'")
		default:
			return nil, syntaxErr(lx.pos, "unexpected %s", lx.kind)
		}
	}
}

type parser struct {
	lx *lexer
}

// group parses up to the ')' matching the '(' at open.
func (p *parser) group(open Position) (Token, error) {
	var items []Token
loop:
	for {
		lx, err := p.lx.next()
		if err != nil {
			return Token{}, err
		}
		switch lx.kind {
		case lexEOF:
			return Token{}, syntaxErr(open, "unclosed '('")
		case lexRParen:
			break loop
		case lexComma:
		case lexWord:
			items = append(items, Token{Kind: TokenWord, Text: lx.text, Pos: lx.pos})
		case lexString:
			items = append(items, Token{Kind: TokenQuoted, Text: lx.text, Pos: lx.pos})
		case lexLParen:
			tok, err := p.group(lx.pos)
			if err != nil {
				return Token{}, err
			}
			items = append(items, tok)
		}
	}

	items = foldEnv(items)
	items, marker, err := trailingMarker(open, items)
	if err != nil {
		return Token{}, err
	}

	switch {
	case len(items) == 0 && marker != MarkerNone:
		return Token{}, shapeErr("parse", open, "marker %q without operand", marker)
	case len(items) == 0:
		return Token{}, syntaxErr(open, "empty group")
	case len(items) == 1 && marker == MarkerNone && items[0].Kind == TokenEnv:
		env := items[0]
		env.Pos = open
		return env, nil
	}
	return Token{Kind: TokenGroup, Items: items, Marker: marker, Pos: open}, nil
}

// foldEnv turns the pair `var` (NAME) into a single env token.
func foldEnv(items []Token) []Token {
	out := items[:0:0]
	for i := 0; i < len(items); i++ {
		it := items[i]
		if it.Kind == TokenWord && it.Text == "var" && i+1 < len(items) {
			next := items[i+1]
			if next.Kind == TokenGroup && next.Marker == MarkerNone &&
				len(next.Items) == 1 && next.Items[0].Kind == TokenWord {
				out = append(out, Token{Kind: TokenEnv, Text: next.Items[0].Text, Pos: it.Pos})
				i++
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// trailingMarker strips the ? or .. closing a group, written either as its
// own word or attached to the last word.
func trailingMarker(open Position, items []Token) ([]Token, Marker, error) {
	marker := MarkerNone
	for len(items) > 0 {
		last := items[len(items)-1]
		if last.Kind != TokenWord {
			break
		}
		m, rest := splitMarker(last.Text)
		if m == MarkerNone {
			break
		}
		if marker != MarkerNone {
			return nil, MarkerNone, shapeErr("parse", open, "more than one marker (%s and %s)", m, marker)
		}
		marker = m
		if rest == "" {
			items = items[:len(items)-1]
			continue
		}
		last.Text = rest
		items = append(items[:len(items)-1:len(items)-1], last)
	}
	return items, marker, nil
}

func splitMarker(word string) (Marker, string) {
	switch {
	case strings.HasSuffix(word, ".."):
		return MarkerSpread, strings.TrimSuffix(word, "..")
	case strings.HasSuffix(word, "?"):
		return MarkerOptional, strings.TrimSuffix(word, "?")
	}
	return MarkerNone, word
}

func isMarkerWord(s string) bool {
	m, _ := splitMarker(s)
	return m != MarkerNone
}
