// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jvariant

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	End     Token = iota // end of input
	Colon                // colon ":"
	Comma                // comma ","
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	String               // quoted string
	Real                 // number with fraction and/or exponent
	Integer              // number: integer with no fraction or exponent
	Boolean              // constant: true or false
	Null                 // constant: null

	// Do not modify the order of these constants without updating the
	// IsControl check below.
)

var tokenStr = [...]string{
	End:     "end of input",
	Colon:   `":"`,
	Comma:   `","`,
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	String:  "string",
	Real:    "real",
	Integer: "integer",
	Boolean: "boolean",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return "invalid token"
	}
	return tokenStr[v]
}

// IsControl reports whether t is a structural token, carrying no value.
func (t Token) IsControl() bool { return t <= RSquare }

// State is the resumable state of the lexer between calls to Tokenize. The
// zero value is Start. The caller must thread the same State through each
// successive call on a given input.
type State byte

// Constants defining the valid State values.
const (
	Start      State = iota // no token has been read
	AwaitValue              // expecting a value or a bracket
	AfterValue              // expecting a separator or a closing bracket
)

var stateStr = [...]string{
	Start:      "start",
	AwaitValue: "awaiting value",
	AfterValue: "after value",
}

func (s State) String() string {
	if int(s) >= len(stateStr) {
		return "invalid state"
	}
	return stateStr[s]
}

// A Lexeme is a single token read from the input, along with its value.
type Lexeme struct {
	Token Token
	Span  Span // location of the token in the input
	Line  int  // line on which the token begins, 1-based

	// For String, the decoded contents of the string. This slice is only
	// valid until the next call to Tokenize with the same cursor.
	Text []byte

	Int  int64   // for Integer
	Real float64 // for Real
	Bool bool    // for Boolean
}
