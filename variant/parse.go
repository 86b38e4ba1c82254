// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package variant

import (
	"bytes"
	"fmt"

	"github.com/creachadair/jvariant"
	"github.com/tailscale/hujson"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000

// Options control the behaviour of the parser. A nil *Options is ready for
// use and provides default settings.
type Options struct {
	// If set, every node allocated by the parser reports to this allocator,
	// including the transient token nodes; the returned tree inherits it.
	Allocator Allocator

	// The maximum nesting depth of arrays and objects. If zero, the parser
	// uses DefaultMaxDepth; if negative, nesting is unlimited.
	MaxDepth int

	// If true, the input is first standardized from HuJSON (JSON with
	// comments and trailing commas) to plain JSON.
	HuJSON bool
}

func (o *Options) allocator() Allocator {
	if o == nil {
		return nil
	}
	return o.Allocator
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Parse parses data as a JSON document, and returns the root of its value
// tree, which is always an Object. Parse uses the default options.
func Parse(data []byte) (*Variant, error) { return (*Options)(nil).Parse(data) }

// Parse parses data as a JSON document, and returns the root of its value
// tree, which is always an Object. The caller owns the root, and should
// release it when it is no longer needed.
//
// Malformed tokens are reported as *jvariant.SyntaxError. Token sequences
// that do not form a document are reported as *GrammarError. An error from
// the Allocator is returned wrapped. In case of error no tree is returned,
// and every node allocated during the call has been released.
func (o *Options) Parse(data []byte) (*Variant, error) {
	if o != nil && o.HuJSON {
		std, err := hujson.Standardize(bytes.Clone(data))
		if err != nil {
			return nil, fmt.Errorf("standardize: %w", err)
		}
		data = std
	}

	tb, err := tokenize(data, o.allocator())
	if err != nil {
		return nil, err
	}
	defer tb.release()

	b := &builder{
		tokens:   tb,
		alloc:    o.allocator(),
		maxDepth: o.maxDepth(),
	}
	return b.document()
}

// A tokenBuffer is the complete sequence of tokens of a document, each
// represented as a leaf node. The buffer is released as a unit once the tree
// has been built; the tree retains copies of the leaves it uses.
type tokenBuffer struct {
	vars  []Variant
	lines []int
	eof   int // the line at end of input
}

func tokenize(data []byte, a Allocator) (*tokenBuffer, error) {
	tb := new(tokenBuffer)
	c := jvariant.NewCursor(data)
	var st jvariant.State
	for {
		lex, err := jvariant.Tokenize(c, &st)
		if err != nil {
			tb.release()
			return nil, err
		} else if lex.Token == jvariant.End {
			tb.eof = lex.Line
			return tb, nil
		}

		v := Variant{kind: leafKind(lex.Token), alloc: a}
		if err := allocNode(a, v.kind); err != nil {
			tb.release()
			return nil, err
		}
		switch v.kind {
		case Control:
			v.tok = lex.Token
		case String:
			v.str = bytes.Clone(lex.Text)
		case Integer:
			v.i = lex.Int
		case Real:
			v.f = lex.Real
		case Boolean:
			v.b = lex.Bool
		}
		tb.vars = append(tb.vars, v)
		tb.lines = append(tb.lines, lex.Line)
	}
}

func (tb *tokenBuffer) release() {
	for i := range tb.vars {
		tb.vars[i].Release()
	}
	tb.vars, tb.lines = nil, nil
}

func leafKind(tok jvariant.Token) Kind {
	switch tok {
	case jvariant.String:
		return String
	case jvariant.Integer:
		return Integer
	case jvariant.Real:
		return Real
	case jvariant.Boolean:
		return Boolean
	case jvariant.Null:
		return Null
	default:
		return Control
	}
}

// A builder assembles a value tree from a token buffer.
type builder struct {
	tokens   *tokenBuffer
	pos      int // offset of the next unread token
	alloc    Allocator
	maxDepth int
}

// scopeState is the state of a single array or object scope.
type scopeState byte

const (
	wantKey   scopeState = iota // expecting a member key
	wantColon                   // expecting ":" after a key
	wantValue                   // expecting a value
	wantComma                   // expecting "," or the closing bracket
)

// document parses the root object, which must consume all the tokens.
func (b *builder) document() (*Variant, error) {
	if len(b.tokens.vars) == 0 {
		return nil, &GrammarError{Line: b.tokens.eof, Message: "empty document"}
	}
	if first := b.next(); !first.isToken(jvariant.LBrace) {
		return nil, b.errorf(0, "document root must be an object, got %s", describe(first))
	}
	root, err := newNode(b.alloc, Object)
	if err != nil {
		return nil, err
	}
	if err := b.scope(root, 1); err != nil {
		root.Release()
		return nil, err
	}
	if b.pos < len(b.tokens.vars) {
		root.Release()
		return nil, b.errorf(b.pos, "unexpected %s after end of document", describe(&b.tokens.vars[b.pos]))
	}
	return root, nil
}

// scope consumes the body of the array or object scope, whose opening bracket
// has already been read, through its closing bracket. On success the
// collected children are installed in scope. On failure every node collected
// for the scope has been released; scope itself is left empty.
func (b *builder) scope(scope *Variant, depth int) error {
	if b.maxDepth > 0 && depth > b.maxDepth {
		return b.errorf(b.pos-1, "nesting depth exceeds %d", b.maxDepth)
	}
	isArray := scope.kind == Array
	closer, state := jvariant.RBrace, wantKey
	if isArray {
		closer, state = jvariant.RSquare, wantValue
	}

	var items []Variant
	var key *Variant
	fail := func(err error) error {
		for i := range items {
			items[i].Release()
		}
		return err
	}

	for start := b.pos; b.pos < len(b.tokens.vars); {
		at := b.pos
		tok := b.next()

		// The closing bracket ends the scope after a value, or as the very
		// first token of the body.
		if tok.isToken(closer) {
			if state != wantComma && at != start {
				return fail(b.errorf(at, "unexpected %s", describe(tok)))
			}
			scope.elems = items
			return nil
		}

		switch state {
		case wantKey:
			if tok.kind != String {
				return fail(b.errorf(at, "expected string key, got %s", describe(tok)))
			}
			key = tok
			state = wantColon

		case wantColon:
			if !tok.isToken(jvariant.Colon) {
				return fail(b.errorf(at, `expected ":", got %s`, describe(tok)))
			}
			state = wantValue

		case wantValue:
			var val Variant
			if tok.kind == Control {
				var nk Kind
				switch tok.tok {
				case jvariant.LBrace:
					nk = Object
				case jvariant.LSquare:
					nk = Array
				default:
					return fail(b.errorf(at, "unexpected %s", describe(tok)))
				}
				nested, err := newNode(b.alloc, nk)
				if err != nil {
					return fail(err)
				}
				if err := b.scope(nested, depth+1); err != nil {
					nested.Release()
					return fail(err)
				}
				val, *nested = *nested, Variant{}
			} else if err := copyInto(&val, tok, b.alloc); err != nil {
				return fail(err)
			}

			if !isArray {
				var k Variant
				if err := copyInto(&k, key, b.alloc); err != nil {
					val.Release()
					return fail(err)
				}
				items = append(items, k)
			}
			items = append(items, val)
			state = wantComma

		case wantComma:
			if !tok.isToken(jvariant.Comma) {
				return fail(b.errorf(at, `expected "," or %v, got %s`, closer, describe(tok)))
			}
			key = nil
			if isArray {
				state = wantValue
			} else {
				state = wantKey
			}
		}
	}
	return fail(&GrammarError{
		Line:    b.tokens.eof,
		Message: fmt.Sprintf("unexpected end of input in %v", scope.kind),
	})
}

// next returns the next unread token and advances past it.
// Precondition: b.pos < len(b.tokens.vars).
func (b *builder) next() *Variant {
	v := &b.tokens.vars[b.pos]
	b.pos++
	return v
}

func (b *builder) errorf(pos int, msg string, args ...any) error {
	return &GrammarError{Line: b.tokens.lines[pos], Message: fmt.Sprintf(msg, args...)}
}

// isToken reports whether v is a Control node carrying tok.
func (v *Variant) isToken(tok jvariant.Token) bool { return v.kind == Control && v.tok == tok }

// describe returns a human-readable label for a token node.
func describe(v *Variant) string {
	if v.kind == Control {
		return v.tok.String()
	}
	return v.kind.String()
}
