package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"cmdmacro/pkg/invoke"
)

var ErrInvalidText = errors.New("invalid text")

// DecodeError reports captured output that is not well-formed text. Offset
// is the byte offset of the first bad sequence, or -1 when unknown.
type DecodeError struct {
	Offset   int
	Encoding string
}

func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("phase=decode: %s: not valid %s", ErrInvalidText, e.Encoding)
	}
	return fmt.Sprintf("phase=decode offset=%d: %s: not valid %s", e.Offset, ErrInvalidText, e.Encoding)
}

func (e *DecodeError) Unwrap() error { return ErrInvalidText }

// Text decodes b as UTF-8 and removes trailing newlines. It fails on the
// first malformed sequence.
func Text(b []byte) (string, error) {
	if off := invalidOffset(b); off >= 0 {
		return "", &DecodeError{Offset: off, Encoding: "utf-8"}
	}
	return trim(string(b)), nil
}

// Lossy decodes b as UTF-8, replacing malformed sequences with U+FFFD, and
// removes trailing newlines.
func Lossy(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return trim(strings.ToValidUTF8(string(b), "\uFFFD"))
	}
	return trim(string(out))
}

// trim drops every trailing '\n'. Carriage returns and other whitespace
// are kept.
func trim(s string) string { return strings.TrimRight(s, "\n") }

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// Decoder decodes output produced in a legacy character set. A zero
// Decoder is UTF-8.
type Decoder struct {
	Encoding encoding.Encoding
	name     string
}

// Lookup finds a decoder by its WHATWG label, e.g. "latin1" or "shift_jis".
func Lookup(label string) (Decoder, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return Decoder{}, fmt.Errorf("encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	return Decoder{Encoding: enc, name: name}, nil
}

func (d Decoder) Name() string {
	if d.Encoding == nil {
		return "utf-8"
	}
	return d.name
}

func (d Decoder) utf8() bool {
	return d.Encoding == nil || d.Encoding == unicode.UTF8 || d.name == "utf-8"
}

// Text decodes strictly: bytes the encoding cannot map are an error.
func (d Decoder) Text(b []byte) (string, error) {
	if d.utf8() {
		return Text(b)
	}
	out, err := d.Encoding.NewDecoder().Bytes(b)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", &DecodeError{Offset: -1, Encoding: d.Name()}
	}
	return trim(string(out)), nil
}

// Lossy decodes, substituting U+FFFD for anything unmappable.
func (d Decoder) Lossy(b []byte) string {
	if d.utf8() {
		return Lossy(b)
	}
	out, err := d.Encoding.NewDecoder().Bytes(b)
	if err != nil {
		return Lossy(b)
	}
	return trim(strings.ToValidUTF8(string(out), "\uFFFD"))
}

func Stdout(r *invoke.Result) (string, error) { return Text(r.Stdout) }

func Stderr(r *invoke.Result) (string, error) { return Text(r.Stderr) }

func StdoutLossy(r *invoke.Result) string { return Lossy(r.Stdout) }

func StderrLossy(r *invoke.Result) string { return Lossy(r.Stderr) }
