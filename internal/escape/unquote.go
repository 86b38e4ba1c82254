// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// An Error reports a problem decoding a string body. Offset is relative to
// the start of the input passed to Decode.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset) }

func errorf(pos int, msg string, args ...any) *Error {
	return &Error{Offset: pos, Message: fmt.Sprintf(msg, args...)}
}

// Decode decodes the body of a JSON string from the front of src, which must
// begin just after the opening quotation mark. The decoded contents are
// appended to dst. Decode returns the extended buffer and the number of bytes
// of src consumed, including the closing quotation mark.
//
// Unescaped control characters (below U+0020, and U+007F), unknown escapes,
// truncated or malformed \u escapes, unpaired UTF-16 surrogates, and invalid
// UTF-8 are all reported as errors. A surrogate pair is combined into a single
// code point and emitted as UTF-8.
func Decode(dst []byte, src mem.RO) ([]byte, int, error) {
	i := 0
	for i < src.Len() {
		b := src.At(i)
		switch {
		case b == '"':
			return dst, i + 1, nil

		case b == '\\':
			var n int
			var err error
			dst, n, err = decodeEscape(dst, src, i)
			if err != nil {
				return dst, i, err
			}
			i += n

		case b < ' ' || b == 0x7f:
			return dst, i, errorf(i, "unescaped control %q", b)

		case b < utf8.RuneSelf:
			dst = append(dst, b)
			i++

		default:
			r, n := mem.DecodeRune(src.SliceFrom(i))
			if r == utf8.RuneError && n <= 1 {
				return dst, i, errorf(i, "invalid UTF-8 encoding")
			}
			dst = mem.Append(dst, src.SliceFrom(i).SliceTo(n))
			i += n
		}
	}
	return dst, i, errorf(i, "unterminated string")
}

// decodeEscape decodes the escape sequence starting at src[i] == '\\', and
// reports the number of bytes it occupies.
func decodeEscape(dst []byte, src mem.RO, i int) ([]byte, int, error) {
	if i+1 >= src.Len() {
		return dst, 0, errorf(i, "unterminated string")
	}
	switch c := src.At(i + 1); c {
	case '"', '\\', '/':
		return append(dst, c), 2, nil
	case 'b':
		return append(dst, '\b'), 2, nil
	case 'f':
		return append(dst, '\f'), 2, nil
	case 'n':
		return append(dst, '\n'), 2, nil
	case 'r':
		return append(dst, '\r'), 2, nil
	case 't':
		return append(dst, '\t'), 2, nil
	case 'u':
		// handled below
	default:
		return dst, 0, errorf(i, "invalid %q after escape", c)
	}

	hi, ok := parseHex4(src.SliceFrom(i + 2))
	if !ok {
		return dst, 0, errorf(i, "invalid Unicode escape")
	}
	if !utf16.IsSurrogate(hi) {
		return utf8.AppendRune(dst, hi), 6, nil
	} else if hi >= 0xdc00 {
		return dst, 0, errorf(i, "unpaired trailing surrogate %U", hi)
	}

	// A leading surrogate must be followed immediately by a trailing one.
	j := i + 6
	if j+1 >= src.Len() || src.At(j) != '\\' || src.At(j+1) != 'u' {
		return dst, 0, errorf(i, "unpaired leading surrogate %U", hi)
	}
	lo, ok := parseHex4(src.SliceFrom(j + 2))
	if !ok {
		return dst, 0, errorf(j, "invalid Unicode escape")
	} else if lo < 0xdc00 || lo > 0xdfff {
		return dst, 0, errorf(i, "unpaired leading surrogate %U", hi)
	}
	return utf8.AppendRune(dst, utf16.DecodeRune(hi, lo)), 12, nil
}

// parseHex4 decodes exactly 4 hexadecimal digits from the front of data.
func parseHex4(data mem.RO) (rune, bool) {
	if data.Len() < 4 {
		return 0, false
	}
	var v rune
	for i := 0; i < 4; i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += rune(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += rune(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += rune(b - 'A' + 10)
		} else {
			return 0, false
		}
	}
	return v, true
}
