package matcher

import (
	"github.com/relmoore/relmoore/pkg/rserr"
	"github.com/relmoore/relmoore/pkg/text"
	"github.com/relmoore/relmoore/pkg/unit"
)

// skipTableSize is 2*(max(T)+1): indices [0, max(T)] hold skips for
// non-positive differences, indices [max(T)+1, 2*max(T)+1] hold skips
// for positive ones. max(T) itself is a valid index on the positive
// side, which is why the table is not sized 2*max(T).
func skipTableSize[T unit.Type]() int {
	return 2 * (unit.Max[T]() + 1)
}

func (m *Matcher[T]) skipTableIndex(diff int) (int, error) {
	half := len(m.skipTable) / 2
	idx := -diff
	if diff > 0 {
		idx = half + diff
	}
	if idx < 0 || idx >= len(m.skipTable) {
		return 0, rserr.New(rserr.InternalError, "skip table index out of bounds")
	}
	return idx, nil
}

// preprocessNoWildcards builds the tables for SimpleRelative and
// ValueScan mode, which share the same simpler algorithm.
func (m *Matcher[T]) preprocessNoWildcards(keyword []rune) error {
	m.keywordDiff = m.computeRelativeValues(keyword)

	k := len(keyword)
	m.skipTable = make([]int, skipTableSize[T]())
	for i := range m.skipTable {
		m.skipTable[i] = k - 1
	}

	for i := k - 1; i >= 0; i-- {
		idx, err := m.skipTableIndex(m.keywordDiff[i])
		if err != nil {
			return err
		}
		// First-fill wins: the nearest-to-the-end occurrence of a
		// given difference gives the largest safe skip.
		if m.skipTable[idx] == k-1 {
			m.skipTable[idx] = k - i - 1
		}
	}

	return nil
}

// preprocessWithWildcards builds the tables for WildcardRelative mode:
// wildcard positions (explicit wildcard character, or minority-case
// ASCII letters when the keyword mixes case) pass trivially during
// scanning and contribute a bridging stride instead of a direct
// predecessor offset.
func (m *Matcher[T]) preprocessWithWildcards() error {
	k := len(m.keyword)
	m.keywordWildcards = append([]rune(nil), m.keyword...)

	if len(m.customSeq) == 0 && m.hasCaseChange {
		// Replace the minority case with the wildcard so its true
		// value is recovered after a match instead of constrained
		// during it.
		upper, lower := countCase(m.keyword)
		replaceMinority := text.IsASCIILower
		if lower > upper {
			replaceMinority = text.IsASCIIUpper
		}
		for i, c := range m.keywordWildcards {
			if replaceMinority(c) {
				m.keywordWildcards[i] = m.wildcard
			}
		}
	}

	m.nonWildcard = make([]bool, k)
	for i, c := range m.keywordWildcards {
		m.nonWildcard[i] = c != m.wildcard
	}

	m.wildcardCount = 0
	for _, ok := range m.nonWildcard {
		if !ok {
			m.wildcardCount++
		}
	}

	normalized := make([]rune, 0, k-m.wildcardCount)
	for i, ok := range m.nonWildcard {
		if ok {
			normalized = append(normalized, m.keywordWildcards[i])
		}
	}
	normalizedDiff := m.computeRelativeValues(normalized)

	m.keywordDiff = make([]int, k)
	m.wildcardStride = make([]int, k)

	lastNonWildcard := text.FindLastIndex(m.nonWildcard, true)
	srcIdx := len(normalized) - 1
	for i := k - 1; i >= 0; i-- {
		if !m.nonWildcard[i] {
			m.keywordDiff[i] = 0
			m.wildcardStride[i] = 0
			continue
		}
		m.keywordDiff[i] = normalizedDiff[srcIdx]
		srcIdx--

		prev := prevNonWildcard(m.nonWildcard, i, lastNonWildcard)
		m.wildcardStride[i] = prev - i
	}

	m.skipTable = make([]int, skipTableSize[T]())
	for i := range m.skipTable {
		m.skipTable[i] = k - 1
	}

	for i := 1; i < k; i++ {
		idx, err := m.skipTableIndex(m.keywordDiff[i])
		if err != nil {
			return err
		}
		remainingWildcards := countWildcardsAfter(m.keywordWildcards, m.wildcard, i)
		// Later iterations overwrite earlier ones, reflecting the
		// bridged-gap rule: the closest mismatch to the end of the
		// keyword determines the safe skip.
		m.skipTable[idx] = k - remainingWildcards - i - 1
	}

	m.wildcardSkip = make([]int, k)
	for i := k - 1; i >= 0; i-- {
		if m.keywordWildcards[i] == m.wildcard {
			m.wildcardSkip[i] = 1
			continue
		}
		lastWildcard := text.FindLastIndex(m.keywordWildcards[:i], m.wildcard)
		if lastWildcard == -1 {
			lastWildcard = 0
		}
		v := i - lastWildcard - 1
		if v < 1 {
			v = 1
		}
		m.wildcardSkip[i] = v
	}

	return nil
}

// prevNonWildcard returns the previous non-wildcard index before i,
// wrapping to lastNonWildcard when i is the first non-wildcard
// position.
func prevNonWildcard(nonWildcard []bool, i, lastNonWildcard int) int {
	for j := i - 1; j >= 0; j-- {
		if nonWildcard[j] {
			return j
		}
	}
	return lastNonWildcard
}

func countWildcardsAfter(seq []rune, wildcard rune, after int) int {
	n := 0
	for i := after + 1; i < len(seq); i++ {
		if seq[i] == wildcard {
			n++
		}
	}
	return n
}
