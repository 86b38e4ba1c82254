// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over a variant value tree.
package cursor

import (
	"fmt"

	"github.com/creachadair/jvariant/variant"
)

// Path traverses a sequential path into the structure of v, where path
// elements are as documented for the Cursor.Down method. This is a
// convenience wrapper for creating a cursor, applying path, and retrieving
// its value.
func Path(v *variant.Variant, path ...any) (*variant.Variant, error) {
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Value(), nil
}

// Text traverses path from v and returns the contents of the String it
// reaches.
func Text(v *variant.Variant, path ...any) (string, error) {
	w, err := Path(v, path...)
	if err != nil {
		return "", err
	}
	return w.Text()
}

// Int traverses path from v and returns the value of the Integer it reaches.
func Int(v *variant.Variant, path ...any) (int64, error) {
	w, err := Path(v, path...)
	if err != nil {
		return 0, err
	}
	return w.Int()
}

// A Cursor is a pointer that navigates into the structure of a value tree.
// A cursor does not own the nodes it visits; the tree must not be released
// while the cursor is in use.
type Cursor struct {
	org *variant.Variant
	stk []*variant.Variant
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin *variant.Variant) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() *variant.Variant { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() *variant.Variant {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []*variant.Variant {
	return append([]*variant.Variant{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are strings (object keys), integers
// (offsets), functions (see below), or nil. If the path cannot be completely
// consumed, traversal stops at the last value reached and an error is
// recorded. Use Err to recover the error.
//
// A string path element requires an Object, and resolves to the value of its
// first member with that key. The error for a missing key wraps
// variant.ErrNotFound.
//
// An integer path element resolves to the element at that offset of an
// Array, or to the value of the member at that offset of an Object. Negative
// offsets count backward from the end (-1 is last, -2 second last).
//
// A function path element must have the signature
//
//	func(*variant.Variant) (*variant.Variant, error)
//
// It is called with the current value, and its result becomes the next value
// in the sequence. If it reports an error, traversal stops and the error is
// recorded.
//
// A nil path element does nothing.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			if cur.Kind() != variant.Object {
				return c.setErrorf("cannot traverse %v with %q", cur.Kind(), t)
			}
			next, err := cur.Member(t)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		case int:
			var next *variant.Variant
			switch cur.Kind() {
			case variant.Array:
				i, ok := fixBound(cur.Len(), t)
				if !ok {
					return c.setErrorf("array index %d out of bounds (n=%d)", t, cur.Len())
				}
				next, _ = cur.Element(i)
			case variant.Object:
				i, ok := fixBound(cur.Len()/2, t)
				if !ok {
					return c.setErrorf("object index %d out of bounds (n=%d)", t, cur.Len()/2)
				}
				next, _ = cur.Element(2*i + 1)
			default:
				return c.setErrorf("cannot traverse %v with %v", cur.Kind(), t)
			}
			cur = c.push(next)

		case func(*variant.Variant) (*variant.Variant, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		case nil:
			// Do nothing.

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v *variant.Variant) *variant.Variant { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
