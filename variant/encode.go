// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package variant

import (
	"bytes"
	"math"
	"strconv"

	"github.com/creachadair/jvariant/internal/escape"

	"go4.org/mem"
)

// JSON renders v as compact JSON text. Object members are written in stored
// order, including duplicates. Non-finite reals are written as null.
func (v *Variant) JSON() string { return string(v.AppendJSON(nil)) }

// AppendJSON appends the JSON encoding of v to buf, as JSON does, and
// returns the extended buffer.
func (v *Variant) AppendJSON(buf []byte) []byte {
	switch v.kind {
	case String:
		return escape.Quote(buf, mem.B(v.str))
	case Integer:
		return strconv.AppendInt(buf, v.i, 10)
	case Real:
		return appendReal(buf, v.f)
	case Boolean:
		return strconv.AppendBool(buf, v.b)
	case Array:
		buf = append(buf, '[')
		for i := range v.elems {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = v.elems[i].AppendJSON(buf)
		}
		return append(buf, ']')
	case Object:
		buf = append(buf, '{')
		for i := 0; i+1 < len(v.elems); i += 2 {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = v.elems[i].AppendJSON(buf)
			buf = append(buf, ':')
			buf = v.elems[i+1].AppendJSON(buf)
		}
		return append(buf, '}')
	case Control:
		// Control nodes do not occur in a finished tree; render the token so
		// a stray one is visible.
		return append(buf, v.tok.String()...)
	default:
		return append(buf, "null"...)
	}
}

// appendReal formats f so that it will be read back as a Real, never as an
// Integer.
func appendReal(buf []byte, f float64) []byte {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return append(buf, "null"...)
	}
	n := len(buf)
	buf = strconv.AppendFloat(buf, f, 'g', -1, 64)
	if !bytes.ContainsAny(buf[n:], ".eE") {
		buf = append(buf, ".0"...)
	}
	return buf
}

// Interface converts v into plain Go values: map[string]any for an Object
// (the first of several members with the same key wins, as for Member),
// []any for an Array, string, int64, float64, bool, and nil for Null.
func (v *Variant) Interface() any {
	switch v.kind {
	case String:
		return string(v.str)
	case Integer:
		return v.i
	case Real:
		return v.f
	case Boolean:
		return v.b
	case Array:
		out := make([]any, len(v.elems))
		for i := range v.elems {
			out[i] = v.elems[i].Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.elems)/2)
		for key, val := range v.Members() {
			if _, ok := out[key]; !ok {
				out[key] = val.Interface()
			}
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether a and b are structurally equal: they have the same
// kind and payload, and their children are pairwise equal in order.
func Equal(a, b *Variant) bool {
	if a == nil || b == nil {
		return a == b
	} else if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Control:
		return a.tok == b.tok
	case String:
		return bytes.Equal(a.str, b.str)
	case Integer:
		return a.i == b.i
	case Real:
		return a.f == b.f
	case Boolean:
		return a.b == b.b
	case Array, Object:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(&a.elems[i], &b.elems[i]) {
				return false
			}
		}
	}
	return true
}
