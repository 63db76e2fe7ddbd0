package matcher

import "github.com/relmoore/relmoore/pkg/text"

// Search runs the matcher over data and returns every match, in
// ascending order of code-unit offset. data is never mutated. The only
// error Search can return is InternalError from a skip-table lookup
// that should be unreachable given the invariants New/NewValueScan
// establish; it is surfaced rather than swallowed, per the core's
// error-handling design.
func (m *Matcher[T]) Search(data []T) ([]Match[T], error) {
	if m.mode == WildcardRelative {
		return m.searchWildcard(data)
	}
	return m.searchSimple(data)
}

// searchSimple implements SimpleRelative and ValueScan mode: a plain
// Boyer-Moore sweep comparing contiguous differences, then the
// wrap-around difference between the first and last keyword
// characters.
func (m *Matcher[T]) searchSimple(data []T) ([]Match[T], error) {
	var results []Match[T]

	k := len(m.keyword)
	if k == 0 || len(data) < k {
		return results, nil
	}

	p := 0
	for p+k <= len(data) {
		mismatch := 0
		failed := false

		for i := k - 1; i > 0; i-- {
			diff := int(data[p+i]) - int(data[p+i-1])
			if diff != m.keywordDiff[i] {
				mismatch = diff
				failed = true
				break
			}
		}

		if !failed {
			diff := int(data[p]) - int(data[p+k-1])
			if diff != m.keywordDiff[0] {
				mismatch = diff
				failed = true
			}
		}

		if !failed {
			results = append(results, Match[T]{
				Offset: uint64(p),
				Values: m.recoverSimpleMap(data, p),
			})
			p += k - 1
			continue
		}

		jump, err := m.boundedSkip(mismatch)
		if err != nil {
			return nil, err
		}
		p += jump
	}

	return results, nil
}

// searchWildcard implements WildcardRelative mode: wildcard positions
// are skipped in the comparison loop, and every other position is
// compared against its bridged predecessor via wildcardStride.
func (m *Matcher[T]) searchWildcard(data []T) ([]Match[T], error) {
	var results []Match[T]

	k := len(m.keywordWildcards)
	if k == 0 || len(data) < k {
		return results, nil
	}

	leadingWildcards := 0
	for leadingWildcards < k && !m.nonWildcard[leadingWildcards] {
		leadingWildcards++
	}
	advance := k - 1 - leadingWildcards
	if advance < 1 {
		advance = 1
	}

	p := 0
	for p+k <= len(data) {
		mismatch := 0
		mismatchIndex := 0
		matched := true

		for kk := 0; kk < k; kk++ {
			i := k - kk - 1
			if !m.nonWildcard[i] {
				continue
			}
			diff := int(data[p+i]) - int(data[p+i+m.wildcardStride[i]])
			if diff != m.keywordDiff[i] {
				mismatch = diff
				mismatchIndex = i
				matched = false
				break
			}
		}

		if matched {
			results = append(results, Match[T]{
				Offset: uint64(p),
				Values: m.recoverWildcardMap(data, p),
			})
			p += advance
			continue
		}

		tableSkip, err := m.boundedSkip(mismatch)
		if err != nil {
			return nil, err
		}
		jump := m.wildcardSkip[mismatchIndex]
		if tableSkip < jump {
			jump = tableSkip
		}
		p += jump
	}

	return results, nil
}

// boundedSkip looks up the skip table entry for a mismatched
// difference and floors it at 1.
func (m *Matcher[T]) boundedSkip(mismatch int) (int, error) {
	idx, err := m.skipTableIndex(mismatch)
	if err != nil {
		return 0, err
	}
	if m.skipTable[idx] < 1 {
		return 1, nil
	}
	return m.skipTable[idx], nil
}

// recoverSimpleMap implements the equivalence-map rule for SimpleRelative
// and ValueScan mode (empty for value scan).
func (m *Matcher[T]) recoverSimpleMap(data []T, p int) EquivalenceMap[T] {
	if m.mode == ValueScan {
		return nil
	}

	result := EquivalenceMap[T]{}

	if m.customIndex == nil {
		delta := int(data[p]) - int(m.keyword[0])
		result['A'] = T('A' + delta)
		result['a'] = T('a' + delta)
		return result
	}

	delta := int(data[p]) - m.customIndex[m.keyword[0]]
	for _, c := range m.customSeq {
		result[c] = T(m.customIndex[c] + delta)
	}
	return result
}

// recoverWildcardMap implements the equivalence-map rule for
// WildcardRelative mode, including the mixed-case Δ/Δ' split.
func (m *Matcher[T]) recoverWildcardMap(data []T, p int) EquivalenceMap[T] {
	result := EquivalenceMap[T]{}

	firstNonWildcard := 0
	for !m.nonWildcard[firstNonWildcard] {
		firstNonWildcard++
	}

	if m.customIndex != nil {
		delta := int(data[p+firstNonWildcard]) - m.customIndex[m.keyword[firstNonWildcard]]
		for _, c := range m.customSeq {
			result[c] = T(m.customIndex[c] + delta)
		}
		return result
	}

	delta := int(data[p+firstNonWildcard]) - int(m.keywordWildcards[firstNonWildcard])

	if !m.hasCaseChange {
		result['A'] = T('A' + delta)
		result['a'] = T('a' + delta)
		return result
	}

	opposingIsUpper := m.mostlyLowercase
	opposingIndex := 0
	for opposingIndex < len(m.keyword) {
		c := m.keyword[opposingIndex]
		match := text.IsASCIILower(c)
		if opposingIsUpper {
			match = text.IsASCIIUpper(c)
		}
		if match {
			break
		}
		opposingIndex++
	}

	opposingDelta := int(data[p+opposingIndex]) - int(m.keyword[opposingIndex])

	if m.mostlyLowercase {
		result['A'] = T('A' + opposingDelta)
		result['a'] = T('a' + delta)
	} else {
		result['A'] = T('A' + delta)
		result['a'] = T('a' + opposingDelta)
	}

	return result
}
