// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote appends the JSON encoding of src to dst, including the enclosing
// double quotation marks, and returns the extended buffer.
//
// Control characters (including U+007F) are escaped so that the result is
// accepted by Decode. Invalid UTF-8 is replaced by the Unicode replacement
// rune.
func Quote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		if r < utf8.RuneSelf {
			if r < ' ' || r == 0x7f {
				if r < ' ' && controlEsc[r] != 0 {
					dst = append(dst, '\\', controlEsc[r])
				} else {
					dst = append(dst, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				dst = append(dst, '\\', byte(r))
			} else {
				dst = append(dst, byte(r))
			}
			continue
		}

		switch r {
		case '\u2028': // line separator
			dst = append(dst, `\u2028`...)
		case '\u2029': // paragraph separator
			dst = append(dst, `\u2029`...)
		default:
			// N.B. An invalid encoding decodes as utf8.RuneError, which is
			// re-encoded here as a valid replacement rune.
			dst = utf8.AppendRune(dst, r)
		}
	}
	return append(dst, '"')
}
