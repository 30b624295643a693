package cmdline

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexKind uint8

const (
	lexEOF lexKind = iota
	lexWord
	lexString
	lexLParen
	lexRParen
	lexComma
)

func (k lexKind) String() string {
	switch k {
	case lexEOF:
		return "end of line"
	case lexWord:
		return "word"
	case lexString:
		return "quoted literal"
	case lexLParen:
		return "'('"
	case lexRParen:
		return "')'"
	case lexComma:
		return "','"
	default:
		return "unknown"
	}
}

type lexeme struct {
	kind lexKind
	text string
	pos  Position
}

const eof = -1

// lexer splits a line into words, quoted literals, parens and, inside
// parens, commas. Whitespace separates lexemes and is otherwise dropped.
type lexer struct {
	input   string
	pos     int  // offset of ch
	readPos int  // offset after ch
	ch      rune // current rune, eof at the end
	line    int
	col     int
	depth   int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	l.pos = l.readPos
	l.col++
	if l.readPos >= len(l.input) {
		l.ch = eof
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += w
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *lexer) skipSpace() {
	for l.ch != eof && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// separator reports whether ch ends a word.
func (l *lexer) separator() bool {
	switch {
	case l.ch == eof, l.ch == '(', l.ch == ')', unicode.IsSpace(l.ch):
		return true
	case l.ch == ',':
		return l.depth > 0
	}
	return false
}

func (l *lexer) next() (lexeme, error) {
	l.skipSpace()
	pos := l.position()

	switch {
	case l.ch == eof:
		return lexeme{kind: lexEOF, pos: pos}, nil
	case l.ch == '(':
		l.depth++
		l.readChar()
		return lexeme{kind: lexLParen, text: "(", pos: pos}, nil
	case l.ch == ')':
		l.depth--
		l.readChar()
		return lexeme{kind: lexRParen, text: ")", pos: pos}, nil
	case l.ch == ',' && l.depth > 0:
		l.readChar()
		return lexeme{kind: lexComma, text: ",", pos: pos}, nil
	case l.ch == '"':
		return l.readDouble(pos)
	case l.ch == '\'':
		return l.readSingle(pos)
	}

	start := l.pos
	for !l.separator() {
		l.readChar()
	}
	return lexeme{kind: lexWord, text: l.input[start:l.pos], pos: pos}, nil
}

func (l *lexer) readDouble(pos Position) (lexeme, error) {
	l.readChar()
	start := l.pos
	for l.ch != '"' {
		switch l.ch {
		case eof:
			return lexeme{}, syntaxErr(pos, "unterminated quoted literal")
		case '\\':
			l.readChar()
			if l.ch == eof {
				return lexeme{}, syntaxErr(pos, "unterminated quoted literal")
			}
		}
		l.readChar()
	}
	raw := l.input[start:l.pos]
	l.readChar()

	text, err := unescape(raw)
	if err != nil {
		return lexeme{}, syntaxErr(pos, "invalid escape in %s", `"`+raw+`"`)
	}
	return l.closeQuoted(pos, text)
}

func (l *lexer) readSingle(pos Position) (lexeme, error) {
	l.readChar()
	start := l.pos
	for l.ch != '\'' {
		if l.ch == eof {
			return lexeme{}, syntaxErr(pos, "unterminated quoted literal")
		}
		l.readChar()
	}
	text := l.input[start:l.pos]
	l.readChar()
	return l.closeQuoted(pos, text)
}

func (l *lexer) closeQuoted(pos Position, text string) (lexeme, error) {
	if !l.separator() {
		return lexeme{}, syntaxErr(l.position(), "missing space after quoted literal")
	}
	return lexeme{kind: lexString, text: text, pos: pos}, nil
}

// unescape decodes the escapes in the body of a double-quoted literal using
// Go rules. Bytes outside escapes are copied as they are, valid UTF-8 or not.
func unescape(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	for len(raw) > 0 {
		i := strings.IndexByte(raw, '\\')
		if i < 0 {
			b.WriteString(raw)
			break
		}
		b.WriteString(raw[:i])
		r, multibyte, tail, err := strconv.UnquoteChar(raw[i:], '"')
		if err != nil {
			return "", err
		}
		if multibyte {
			b.WriteRune(r)
		} else {
			b.WriteByte(byte(r))
		}
		raw = tail
	}
	return b.String(), nil
}
