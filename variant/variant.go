// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package variant defines an in-memory value tree for JSON documents, and a
// parser that builds trees from the tokens of the jvariant lexer.
//
// Every node of a tree is a *Variant. Scalar nodes carry a string, integer,
// real, or boolean payload; Array and Object nodes own a contiguous sequence
// of child nodes. An Object stores its members flattened: even positions
// hold keys (always of kind String) and odd positions hold values.
//
// A tree is strictly single-owner. The caller that receives a root from
// Parse owns it until it calls Release, which releases every descendant
// exactly once. Attach an Allocator to observe node lifetimes.
package variant

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/creachadair/jvariant"
)

// Kind is the type of a variant node.
type Kind byte

// Constants defining the valid Kind values.
const (
	Control Kind = iota // a structural token; never part of a finished tree
	String              // a string
	Integer             // a 64-bit signed integer
	Boolean             // true or false
	Real                // a 64-bit floating-point number
	Array               // a sequence of values
	Object              // a sequence of key-value members
	Null                // the null constant

	released Kind = 255 // the node has been released
)

var kindStr = [...]string{
	Control: "control",
	String:  "string",
	Integer: "integer",
	Boolean: "boolean",
	Real:    "real",
	Array:   "array",
	Object:  "object",
	Null:    "null",
}

func (k Kind) String() string {
	if k == released {
		return "released"
	} else if int(k) >= len(kindStr) {
		return "invalid kind"
	}
	return kindStr[k]
}

// A Variant is a single node of a value tree. The zero value is a Control
// node with no token, and is not useful; use New or one of the typed
// constructors.
type Variant struct {
	kind  Kind
	tok   jvariant.Token // for Control
	str   []byte         // for String
	elems []Variant      // for Array and Object
	b     bool
	i     int64
	f     float64

	alloc Allocator // if non-nil, observes this node's lifetime
}

// New returns a new node of kind k with a zero payload.
func New(k Kind) *Variant { return &Variant{kind: k} }

// NewString returns a new String node.
func NewString(s string) *Variant { return &Variant{kind: String, str: []byte(s)} }

// NewInt returns a new Integer node.
func NewInt(z int64) *Variant { return &Variant{kind: Integer, i: z} }

// NewReal returns a new Real node.
func NewReal(f float64) *Variant { return &Variant{kind: Real, f: f} }

// NewBool returns a new Boolean node.
func NewBool(b bool) *Variant { return &Variant{kind: Boolean, b: b} }

// NewNull returns a new Null node.
func NewNull() *Variant { return &Variant{kind: Null} }

// NewArray returns a new Array node whose elements are vs, in order.  The
// array takes ownership of the elements; the caller must not use or release
// the arguments afterward.
func NewArray(vs ...*Variant) *Variant {
	elems := make([]Variant, len(vs))
	for i, v := range vs {
		elems[i] = *v
		*v = Variant{kind: released}
	}
	return &Variant{kind: Array, elems: elems}
}

// A Pair is a key-value member passed to NewObject.
type Pair struct {
	Key   string
	Value *Variant
}

// Field constructs a Pair with the given key and value.
func Field(key string, value *Variant) Pair { return Pair{Key: key, Value: value} }

// NewObject returns a new Object node with the given members, in order.  The
// object takes ownership of the member values as NewArray does.
func NewObject(members ...Pair) *Variant {
	elems := make([]Variant, 0, 2*len(members))
	for _, m := range members {
		elems = append(elems, Variant{kind: String, str: []byte(m.Key)}, *m.Value)
		*m.Value = Variant{kind: released}
	}
	return &Variant{kind: Object, elems: elems}
}

// Kind reports the kind of v.
func (v *Variant) Kind() Kind { return v.kind }

// Len reports the count of v: the number of elements of an Array, twice the
// number of members of an Object, or the length in bytes of a String. It
// returns 0 for other kinds.
func (v *Variant) Len() int {
	if v.kind == String {
		return len(v.str)
	}
	return len(v.elems)
}

// Token reports the token carried by a Control node.
func (v *Variant) Token() (jvariant.Token, error) {
	if err := v.want("Token", Control); err != nil {
		return jvariant.End, err
	}
	return v.tok, nil
}

// Text reports the contents of a String node.
func (v *Variant) Text() (string, error) {
	if err := v.want("Text", String); err != nil {
		return "", err
	}
	return string(v.str), nil
}

// Bool reports the value of a Boolean node.
func (v *Variant) Bool() (bool, error) {
	if err := v.want("Bool", Boolean); err != nil {
		return false, err
	}
	return v.b, nil
}

// Int reports the value of an Integer node. A Real node is not converted.
func (v *Variant) Int() (int64, error) {
	if err := v.want("Int", Integer); err != nil {
		return 0, err
	}
	return v.i, nil
}

// Real reports the value of a Real node. An Integer node is not converted.
func (v *Variant) Real() (float64, error) {
	if err := v.want("Real", Real); err != nil {
		return 0, err
	}
	return v.f, nil
}

// Element returns the child of an Array or Object at offset i, which must
// be in the range 0 <= i < v.Len(). For an Object, even offsets are keys and
// odd offsets are values. The result is owned by v.
func (v *Variant) Element(i int) (*Variant, error) {
	if err := v.want("Element", Array, Object); err != nil {
		return nil, err
	} else if i < 0 || i >= len(v.elems) {
		return nil, &RangeError{Index: i, Len: len(v.elems)}
	}
	return &v.elems[i], nil
}

// Member returns the value of the first member of an Object whose key is
// exactly equal to key. If there is no such member, Member reports
// ErrNotFound. The result is owned by v.
func (v *Variant) Member(key string) (*Variant, error) {
	if err := v.want("Member", Object); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(v.elems); i += 2 {
		if k := &v.elems[i]; k.kind == String && string(k.str) == key {
			return &v.elems[i+1], nil
		}
	}
	return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
}

// Members returns an iterator over the key-value members of an Object, in
// stored order. It yields nothing for other kinds.
func (v *Variant) Members() iter.Seq2[string, *Variant] {
	return func(yield func(string, *Variant) bool) {
		if v == nil || v.kind != Object {
			return
		}
		for i := 0; i+1 < len(v.elems); i += 2 {
			if !yield(string(v.elems[i].str), &v.elems[i+1]) {
				return
			}
		}
	}
}

// Elements returns an iterator over the children of an Array or Object, with
// their offsets. It yields nothing for other kinds.
func (v *Variant) Elements() iter.Seq2[int, *Variant] {
	return func(yield func(int, *Variant) bool) {
		if v == nil || (v.kind != Array && v.kind != Object) {
			return
		}
		for i := range v.elems {
			if !yield(i, &v.elems[i]) {
				return
			}
		}
	}
}

// Copy returns a deep copy of v. Every descendant is duplicated into freshly
// allocated storage; the copy shares nothing with v. The copy reports to the
// same Allocator as v, if any. Copy of nil is nil.
func (v *Variant) Copy() (*Variant, error) {
	if v == nil {
		return nil, nil
	}
	out := new(Variant)
	if err := copyInto(out, v, v.alloc); err != nil {
		return nil, err
	}
	return out, nil
}

// copyInto fills dst with a deep copy of src whose nodes are reported to a.
// In case of error, dst is left empty and every node allocated for the copy
// has been released.
func copyInto(dst, src *Variant, a Allocator) error {
	if err := allocNode(a, src.kind); err != nil {
		return err
	}
	*dst = Variant{kind: src.kind, tok: src.tok, b: src.b, i: src.i, f: src.f, alloc: a}
	switch src.kind {
	case String:
		dst.str = bytes.Clone(src.str)
	case Array, Object:
		dst.elems = make([]Variant, len(src.elems))
		for i := range src.elems {
			if err := copyInto(&dst.elems[i], &src.elems[i], a); err != nil {
				dst.elems = dst.elems[:i]
				dst.Release()
				*dst = Variant{}
				return err
			}
		}
	}
	return nil
}

// Release releases v and all its descendants. Children are released before
// their parents. Release of a nil node does nothing, and after Release v is
// inert: its accessors report a released kind, and releasing it again has no
// effect.
//
// Pointers to descendants of v obtained before Release must not be used
// afterward.
func (v *Variant) Release() {
	if v == nil || v.kind == released {
		return
	}
	for i := range v.elems {
		v.elems[i].Release()
	}
	if v.alloc != nil {
		v.alloc.Free(v.kind)
	}
	*v = Variant{kind: released}
}

// want reports a *KindError if v does not have one of the specified kinds.
func (v *Variant) want(op string, kinds ...Kind) error {
	if v == nil {
		return &KindError{Op: op, Got: released, Want: kinds}
	}
	for _, k := range kinds {
		if v.kind == k {
			return nil
		}
	}
	return &KindError{Op: op, Got: v.kind, Want: kinds}
}
