// Package utf8enc renders a single 32-bit code point as UTF-8, the way
// the original engine's mmoore::encoding::to_utf8 did for previews.
// There is no ecosystem library for "encode one rune" — the standard
// library's unicode/utf8 already is the idiomatic way to do this in Go.
package utf8enc

import "unicode/utf8"

// Encode returns the UTF-8 encoding of codepoint. Invalid code points
// (surrogate halves, values above the Unicode range) are replaced with
// utf8.RuneError, matching EncodeRune's own fallback.
func Encode(codepoint rune) string {
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, codepoint)
	return string(buf[:n])
}
