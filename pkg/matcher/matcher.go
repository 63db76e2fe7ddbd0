// Package matcher implements the relative Boyer-Moore matcher: given a
// keyword over a character alphabet and a buffer of fixed-width code
// units, it finds every offset where the buffer's first-order
// differences equal the keyword's first-order differences, treating
// the keyword as cyclic so every position (including the first) is
// constrained. It also supports wildcards, mixed-case handling, a
// user-supplied character ordering, and a degenerate value-scan mode
// where the "keyword" is a literal sequence of signed integers.
package matcher

import (
	"fmt"

	"github.com/relmoore/relmoore/pkg/rserr"
	"github.com/relmoore/relmoore/pkg/text"
	"github.com/relmoore/relmoore/pkg/unit"
)

// Mode identifies which of the three matching strategies a Matcher
// runs.
type Mode int

const (
	SimpleRelative Mode = iota
	WildcardRelative
	ValueScan
)

// EquivalenceMap maps a character to the code-unit value it takes in a
// matched substring.
type EquivalenceMap[T unit.Type] map[rune]T

// Match is a single relative-search hit.
type Match[T unit.Type] struct {
	Offset uint64 // offset in code units, not bytes
	Values EquivalenceMap[T]
}

// Matcher is an immutable, preprocessed relative matcher for code-unit
// width T. Build one with New or NewValueScan; a Matcher is safe to
// share across goroutines for concurrent Search calls since scanning
// never mutates its preprocessed tables.
type Matcher[T unit.Type] struct {
	mode Mode

	keyword  []rune
	wildcard rune

	// keywordWildcards is keyword with minority-case letters replaced
	// by wildcard in WildcardRelative mode; nil in the other modes.
	keywordWildcards []rune

	// nonWildcard[i] is true when keywordWildcards[i] is not the
	// wildcard character.
	nonWildcard []bool

	// keywordDiff[i] is the expected signed difference at position i
	// (wrap-around rule for i==0). Wildcard positions carry the
	// sentinel 0 and are skipped structurally rather than masked.
	keywordDiff []int

	// wildcardStride[i] is prev(i)-i for non-wildcard i, 0 for
	// wildcard i, so the bridged predecessor is buf[p+i+stride[i]].
	wildcardStride []int

	skipTable     []int
	wildcardSkip  []int
	wildcardCount int

	hasCaseChange   bool
	mostlyLowercase bool

	customSeq   []rune
	customIndex map[rune]int
}

// New builds a relative matcher from a keyword, an optional wildcard
// character (0 disables wildcards) and an optional custom character
// sequence defining a user-chosen alphabet ordering.
func New[T unit.Type](keyword []rune, wildcard rune, customSeq []rune) (*Matcher[T], error) {
	if len(keyword) == 0 {
		return nil, rserr.New(rserr.InvalidArgument, "keyword must not be empty")
	}

	m := &Matcher[T]{
		keyword:  append([]rune(nil), keyword...),
		wildcard: wildcard,
	}

	if len(customSeq) > 0 {
		m.customSeq = append([]rune(nil), customSeq...)
		m.customIndex = make(map[rune]int, len(customSeq))
		for i, c := range customSeq {
			m.customIndex[c] = i
		}
		for _, c := range keyword {
			if c == wildcard {
				continue
			}
			if _, ok := m.customIndex[c]; !ok {
				return nil, rserr.New(rserr.InvalidArgument,
					fmt.Sprintf("keyword character %q is absent from the custom sequence", c))
			}
		}
	}

	hasWildcard := wildcard != 0 && containsRune(keyword, wildcard)

	if len(m.customSeq) == 0 {
		upper, lower := countCase(keyword)
		m.hasCaseChange = upper > 0 && lower > 0
		m.mostlyLowercase = lower > upper
	}

	if hasWildcard || m.hasCaseChange {
		m.mode = WildcardRelative
		if err := m.preprocessWithWildcards(); err != nil {
			return nil, err
		}
	} else {
		m.mode = SimpleRelative
		if err := m.preprocessNoWildcards(m.keyword); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// NewValueScan builds a value-scan matcher: the "keyword" is a literal
// sequence of signed integers and matches return offsets only, with no
// equivalence map.
func NewValueScan[T unit.Type](values []int16) (*Matcher[T], error) {
	if len(values) == 0 {
		return nil, rserr.New(rserr.InvalidArgument, "reference values must not be empty")
	}

	keyword := make([]rune, len(values))
	for i, v := range values {
		keyword[i] = rune(v)
	}

	m := &Matcher[T]{
		mode:    ValueScan,
		keyword: keyword,
	}
	if err := m.preprocessNoWildcards(keyword); err != nil {
		return nil, err
	}
	return m, nil
}

func containsRune(seq []rune, v rune) bool {
	for _, c := range seq {
		if c == v {
			return true
		}
	}
	return false
}

func countCase(seq []rune) (upper, lower int) {
	for _, c := range seq {
		if text.IsASCIIUpper(c) {
			upper++
		} else if text.IsASCIILower(c) {
			lower++
		}
	}
	return
}

// charValue returns the value diffs are computed over for character c:
// its position in the custom sequence if one is configured, or its
// code point otherwise.
func (m *Matcher[T]) charValue(c rune) int {
	if m.customIndex != nil {
		return m.customIndex[c]
	}
	return int(c)
}

// computeRelativeValues returns diff(S,i) for i in [0,len(seq)), where
// diff(S,i) = value(S[i]) - value(S[i-1]) and diff(S,0) wraps to
// value(S[0]) - value(S[len-1]).
func (m *Matcher[T]) computeRelativeValues(seq []rune) []int {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	out[0] = m.charValue(seq[0]) - m.charValue(seq[n-1])
	for i := n - 1; i > 0; i-- {
		out[i] = m.charValue(seq[i]) - m.charValue(seq[i-1])
	}
	return out
}
