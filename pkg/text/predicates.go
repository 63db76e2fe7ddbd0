// Package text holds the small ASCII classifiers and sequence helpers
// the matcher's wildcard/case-mixing logic is built on. Nothing here
// does Unicode case folding or normalization — only plain ASCII, per
// the core's non-goals.
package text

// IsASCIIUpper reports whether c is an ASCII uppercase letter.
func IsASCIIUpper(c rune) bool {
	return c < 128 && c >= 'A' && c <= 'Z'
}

// IsASCIILower reports whether c is an ASCII lowercase letter.
func IsASCIILower(c rune) bool {
	return c < 128 && c >= 'a' && c <= 'z'
}

// IsASCIIDigit reports whether c is an ASCII digit.
func IsASCIIDigit(c rune) bool {
	return c < 128 && c >= '0' && c <= '9'
}

// FindLastIndex returns the index of the last occurrence of v in seq,
// or -1 if v does not occur.
func FindLastIndex[T comparable](seq []T, v T) int {
	last := -1
	for i, x := range seq {
		if x == v {
			last = i
		}
	}
	return last
}

// CountPrefixLength counts how many consecutive elements at the start
// of seq equal v.
func CountPrefixLength[T comparable](seq []T, v T) int {
	n := 0
	for _, x := range seq {
		if x != v {
			break
		}
		n++
	}
	return n
}
