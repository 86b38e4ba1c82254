// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jvariant

import "fmt"

// SyntaxError is the concrete type of errors reported by the lexer for
// malformed input.
type SyntaxError struct {
	Line    int // line of the error, 1-based
	Offset  int // byte offset of the error in the input
	Message string
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %d:%d: %s", s.Line, s.Offset, s.Message)
}
