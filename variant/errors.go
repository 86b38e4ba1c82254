// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package variant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is reported by Member when an object has no member with the
// requested key.
var ErrNotFound = errors.New("member not found")

// KindError is reported when an accessor is applied to a node of the wrong
// kind.
type KindError struct {
	Op   string // the accessor that failed
	Got  Kind   // the kind of the node
	Want []Kind // the kinds the accessor accepts
}

// Error satisfies the error interface.
func (e *KindError) Error() string {
	ws := make([]string, len(e.Want))
	for i, k := range e.Want {
		ws[i] = k.String()
	}
	return fmt.Sprintf("%s: node is %v, want %s", e.Op, e.Got, strings.Join(ws, " or "))
}

// RangeError is reported when an element index is out of range.
type RangeError struct {
	Index, Len int
}

// Error satisfies the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("index %d out of range (n=%d)", e.Index, e.Len)
}

// GrammarError is reported when a token sequence does not form a valid
// document.
type GrammarError struct {
	Line    int // line of the offending token, 1-based
	Message string
}

// Error satisfies the error interface.
func (e *GrammarError) Error() string {
	return fmt.Sprintf("at line %d: %s", e.Line, e.Message)
}
