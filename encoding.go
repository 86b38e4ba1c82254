// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jvariant

import (
	"errors"
	"strings"

	"github.com/creachadair/jvariant/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(nil, mem.S(src))) }

// AppendQuote appends the JSON encoding of src to dst, as Quote does.
func AppendQuote(dst []byte, src string) []byte { return escape.Quote(dst, mem.S(src)) }

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Unquote applies the same rules as the lexer: invalid escapes, unpaired
// surrogates, unescaped control characters, and invalid UTF-8 are errors.
func Unquote(src string) (string, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return "", errors.New("missing quotations")
	}
	dec, n, err := escape.Decode(nil, mem.S(src[1:]))
	if err != nil {
		return "", err
	} else if n != len(src)-1 {
		return "", errors.New("extra data after closing quotation")
	}
	return string(dec), nil
}
