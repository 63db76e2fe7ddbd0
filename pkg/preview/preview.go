// Package preview renders the code-unit window around a match as
// human-readable text: decoded through the match's equivalence map in
// relative-search mode, or as a hex dump in value-scan mode.
package preview

import (
	"fmt"
	"strings"

	"github.com/relmoore/relmoore/pkg/unit"
	"github.com/relmoore/relmoore/pkg/utf8enc"
)

// Window describes the byte range of a file to read for a preview,
// already clamped to [0, fileSize).
type Window struct {
	StartOffset uint64
	Length      uint32
}

// alignUp rounds n up to the next multiple of alignment (alignment
// must be a power of two).
func alignUp(n int64, alignment int64) int64 {
	mask := alignment - 1
	return (n + mask) &^ mask
}

// Plan computes the byte window to read for a preview centered on
// matchOffset, given the keyword length and code-unit size that
// produced the match.
func Plan(fileSize, matchOffset uint64, keywordLen, codeUnitSize, windowWidth int) Window {
	u := int64(codeUnitSize)

	kwHalfWidth := keywordLen / 2
	windowHalfWidth := windowWidth / 2

	positionsToBackup := int64(windowHalfWidth - kwHalfWidth)
	bytesToBackup := alignUp(positionsToBackup*u, u)

	startOffset := int64(matchOffset) - bytesToBackup
	endOffset := startOffset + int64(windowWidth)*u

	if endOffset > int64(fileSize) {
		startOffset -= endOffset - int64(fileSize)
	}
	if startOffset < 0 {
		startOffset = 0
	}

	length := int64(windowWidth) * u
	if startOffset+length > int64(fileSize) {
		length = int64(fileSize) - startOffset
	}
	if length < 0 {
		length = 0
	}

	return Window{StartOffset: uint64(startOffset), Length: uint32(length)}
}

// DecodeRelative renders raw as text by substituting each code unit
// through a decoding map built from values: in ASCII mode (customSeq
// empty) an 'a' or 'A' entry expands to the 26 consecutive letters it
// anchors; every other entry is a single code point. Code units with
// no entry render as '#'.
func DecodeRelative[T unit.Type](values map[rune]T, customSeq []rune, raw []T) string {
	isASCII := len(customSeq) == 0

	decoding := make(map[T]string, len(values))
	for char, value := range values {
		if isASCII && (char == 'a' || char == 'A') {
			for letterOffset := rune(0); letterOffset < 26; letterOffset++ {
				codepoint := char + letterOffset
				decoding[T(int64(value)+int64(letterOffset))] = utf8enc.Encode(codepoint)
			}
			continue
		}
		decoding[value] = utf8enc.Encode(char)
	}

	var b strings.Builder
	for _, v := range raw {
		if s, ok := decoding[v]; ok {
			b.WriteString(s)
		} else {
			b.WriteByte('#')
		}
	}
	return b.String()
}

// DecodeValueScan renders raw as a space-separated uppercase hex dump,
// each code unit zero-padded to 2*sizeof(T) digits.
func DecodeValueScan[T unit.Type](raw []T) string {
	width := unit.Size[T]() * 2
	parts := make([]string, len(raw))
	for i, v := range raw {
		parts[i] = fmt.Sprintf("%0*X", width, uint64(v))
	}
	return strings.Join(parts, " ")
}
