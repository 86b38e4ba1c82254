// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jvariant implements a JSON lexer over in-memory documents.
//
// The companion package [github.com/creachadair/jvariant/variant] builds
// value trees from the tokens reported here.
//
// # Tokenizing
//
// Tokenize is the resumable single-token primitive. It reads one token from
// a Cursor and updates a State value, which the caller threads through
// successive calls. The zero State is Start:
//
//	c := jvariant.NewCursor(input)
//	var st jvariant.State
//	for {
//	   lex, err := jvariant.Tokenize(c, &st)
//	   if err != nil {
//	      log.Fatalf("Tokenize failed: %v", err)
//	   } else if lex.Token == jvariant.End {
//	      break
//	   }
//	   log.Printf("Line %d: %v", lex.Line, lex.Token)
//	}
//
// The lexer tracks whether it expects a value or a separator, so some
// grammar errors (such as two adjacent values) are caught here, but it does
// not check that brackets balance. That is the job of the tree builder.
//
// # Scanning
//
// The Lexer type wraps a cursor and its state in a scanner-style loop:
//
//	lx := jvariant.NewLexer(input)
//	for lx.Next() {
//	   log.Printf("Next token: %v", lx.Token())
//	}
//	if err := lx.Err(); err != nil {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// Errors reported for malformed input have concrete type *SyntaxError.
//
// # Values
//
// String tokens are decoded as they are read: escapes are replaced, and
// UTF-16 surrogate pairs are combined and emitted as UTF-8. Numbers with no
// fraction or exponent are reported as Integer, unless they do not fit in an
// int64, in which case they are reported as Real. A number must be followed
// by whitespace, punctuation, or the end of input.
package jvariant
