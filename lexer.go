// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jvariant

import (
	"fmt"
	"math"

	"github.com/creachadair/jvariant/internal/escape"

	"go4.org/mem"
)

// A Cursor is a read position in an in-memory JSON document.
type Cursor struct {
	Data []byte // the complete input
	Pos  int    // offset of the next unread byte
	Line int    // current line, 1-based; reset when the state is Start

	buf []byte // decoded string contents, reused between tokens
}

// NewCursor constructs a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor { return &Cursor{Data: data} }

// Tokenize reads the next token from c, advancing c past the input consumed
// and updating st. Newlines skipped as whitespace are added to c.Line.
//
// When the input is exhausted, Tokenize returns a Lexeme with token End and
// a nil error; End is reported again by subsequent calls. If the input is
// malformed, Tokenize returns an error of concrete type *SyntaxError and c
// is not advanced past the start of the offending token.
func Tokenize(c *Cursor, st *State) (Lexeme, error) {
	if *st == Start {
		c.Line = 1
		*st = AwaitValue
	}
	c.skipSpace()
	if c.Pos >= len(c.Data) {
		return Lexeme{Token: End, Span: Span{Pos: c.Pos, End: c.Pos}, Line: c.Line}, nil
	}

	ch := c.Data[c.Pos]
	if ch == 0 {
		return Lexeme{}, c.failf(c.Pos, "NUL byte in input")
	}
	switch *st {
	case AwaitValue:
		switch ch {
		case '{':
			return c.punct(LBrace, st, AwaitValue), nil
		case '}':
			return c.punct(RBrace, st, AfterValue), nil
		case '[':
			return c.punct(LSquare, st, AwaitValue), nil
		case ']':
			return c.punct(RSquare, st, AfterValue), nil
		case '"':
			return c.scanString(st)
		case 't':
			return c.scanName("true", Lexeme{Token: Boolean, Bool: true}, st)
		case 'f':
			return c.scanName("false", Lexeme{Token: Boolean}, st)
		case 'n':
			return c.scanName("null", Lexeme{Token: Null}, st)
		}
		if isNumStart(ch) {
			return c.scanNumber(st)
		}
		return Lexeme{}, c.failf(c.Pos, "unexpected %q", ch)

	case AfterValue:
		switch ch {
		case ':':
			return c.punct(Colon, st, AwaitValue), nil
		case ',':
			return c.punct(Comma, st, AwaitValue), nil
		case '}':
			return c.punct(RBrace, st, AfterValue), nil
		case ']':
			return c.punct(RSquare, st, AfterValue), nil
		}
		return Lexeme{}, c.failf(c.Pos, "unexpected %q after value", ch)

	default:
		return Lexeme{}, c.failf(c.Pos, "invalid lexer state %v", *st)
	}
}

func (c *Cursor) skipSpace() {
	for c.Pos < len(c.Data) {
		switch c.Data[c.Pos] {
		case '\n':
			c.Line++
		case ' ', '\t', '\r':
		default:
			return
		}
		c.Pos++
	}
}

// punct consumes a single-byte structural token.
func (c *Cursor) punct(tok Token, st *State, next State) Lexeme {
	lex := Lexeme{Token: tok, Span: Span{Pos: c.Pos, End: c.Pos + 1}, Line: c.Line}
	c.Pos++
	*st = next
	return lex
}

// finish records the span of lex as running from the current position to
// end, and advances c to end.
func (c *Cursor) finish(lex Lexeme, end int, st *State) (Lexeme, error) {
	lex.Span = Span{Pos: c.Pos, End: end}
	lex.Line = c.Line
	c.Pos = end
	*st = AfterValue
	return lex, nil
}

func (c *Cursor) scanString(st *State) (Lexeme, error) {
	body := c.Pos + 1
	buf, n, err := escape.Decode(c.buf[:0], mem.B(c.Data[body:]))
	c.buf = buf
	if err != nil {
		e := err.(*escape.Error)
		return Lexeme{}, c.failf(body+e.Offset, "%s", e.Message)
	}
	return c.finish(Lexeme{Token: String, Text: c.buf}, body+n, st)
}

func (c *Cursor) scanName(name string, lex Lexeme, st *State) (Lexeme, error) {
	src := mem.B(c.Data[c.Pos:])
	if !mem.HasPrefix(src, mem.S(name)) {
		return Lexeme{}, c.failf(c.Pos, "unknown constant, want %q", name)
	}
	return c.finish(lex, c.Pos+len(name), st)
}

// scanNumber consumes a number. An integer whose value does not fit in an
// int64 is reported as a Real.
func (c *Cursor) scanNumber(st *State) (Lexeme, error) {
	data, i := c.Data, c.Pos
	at := func(i int) byte {
		if i < len(data) {
			return data[i]
		}
		return 0
	}

	neg := at(i) == '-'
	if neg {
		i++
	}

	// Integer part: a single 0, or a nonempty run of digits with no leading
	// zero. The magnitude is accumulated digit by digit.
	var mag uint64
	var overflow bool
	if at(i) == '0' {
		i++
	} else if !isDigit(at(i)) {
		return Lexeme{}, c.failf(i, "want digit after sign")
	} else {
		for ; isDigit(at(i)); i++ {
			d := uint64(at(i) - '0')
			if mag > (math.MaxUint64-d)/10 {
				overflow = true
			} else {
				mag = 10*mag + d
			}
		}
	}

	var isReal bool
	if at(i) == '.' {
		isReal = true
		i++
		if !isDigit(at(i)) {
			return Lexeme{}, c.failf(i, "no digits after decimal point")
		}
		for isDigit(at(i)) {
			i++
		}
	}
	if b := at(i); b == 'e' || b == 'E' {
		isReal = true
		i++
		if b := at(i); b == '+' || b == '-' {
			i++
		}
		if !isDigit(at(i)) {
			return Lexeme{}, c.failf(i, "missing exponent digits")
		}
		for isDigit(at(i)) {
			i++
		}
	}

	if i < len(data) && !isDelim(data[i]) {
		return Lexeme{}, c.failf(i, "unexpected %q after number", data[i])
	}

	if !isReal {
		limit := uint64(math.MaxInt64)
		if neg {
			limit++
		}
		if !overflow && mag <= limit {
			v := int64(mag)
			if neg {
				v = -v
			}
			return c.finish(Lexeme{Token: Integer, Int: v}, i, st)
		}
		// Fall through: an oversized integer is represented as a real.
	}

	f, err := mem.ParseFloat(mem.B(data[c.Pos:i]), 64)
	if err != nil {
		return Lexeme{}, c.failf(c.Pos, "number out of range")
	}
	return c.finish(Lexeme{Token: Real, Real: f}, i, st)
}

func (c *Cursor) failf(pos int, msg string, args ...any) error {
	line := c.Line
	for _, b := range c.Data[c.Pos:min(pos, len(c.Data))] {
		if b == '\n' {
			line++
		}
	}
	return &SyntaxError{Line: line, Offset: pos, Message: fmt.Sprintf(msg, args...)}
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }

// isDelim reports whether ch may immediately follow a number.
func isDelim(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', ',', ':', '[', ']', '{', '}':
		return true
	}
	return false
}

// A Lexer reads a sequence of tokens from an in-memory JSON document.  Each
// call to Next advances the lexer to the next token, or reports an error.
type Lexer struct {
	cur Cursor
	st  State
	lex Lexeme
	err error
}

// NewLexer constructs a new lexer that consumes tokens from data.
func NewLexer(data []byte) *Lexer { return &Lexer{cur: Cursor{Data: data}} }

// Next advances l to the next token of the input and reports whether a token
// is available. At the end of input, or if an error occurs, Next returns
// false; use Err to distinguish these cases.
func (l *Lexer) Next() bool {
	if l.err != nil {
		return false
	}
	lex, err := Tokenize(&l.cur, &l.st)
	if err != nil {
		l.err = err
		l.lex = Lexeme{}
		return false
	}
	l.lex = lex
	return lex.Token != End
}

// Lexeme returns the current token and its value. The Text field of the
// result is only valid until the next call of Next.
func (l *Lexer) Lexeme() Lexeme { return l.lex }

// Token returns the type of the current token.
func (l *Lexer) Token() Token { return l.lex.Token }

// Line reports the current line number of the lexer.
func (l *Lexer) Line() int { return l.cur.Line }

// Err returns the error that stopped the lexer, or nil if the lexer is still
// active or reached the end of its input without error.
func (l *Lexer) Err() error { return l.err }
