package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmoore/relmoore/pkg/rserr"
)

func asRSErr(t *testing.T, err error) *rserr.Error {
	t.Helper()
	var rerr *rserr.Error
	require.True(t, errors.As(err, &rerr), "expected a *rserr.Error, got %v", err)
	return rerr
}

func TestNewRejectsEmptyKeyword(t *testing.T) {
	_, err := New[uint8](nil, 0, nil)
	require.Error(t, err)
	assert.Equal(t, rserr.InvalidArgument, asRSErr(t, err).Kind)
}

func TestNewRejectsCustomSequenceMissingChar(t *testing.T) {
	_, err := New[uint8]([]rune("match"), 0, []rune("mach"))
	require.Error(t, err)
	assert.Equal(t, rserr.InvalidArgument, asRSErr(t, err).Kind)
}

func TestNewValueScanRejectsEmptyValues(t *testing.T) {
	_, err := NewValueScan[uint8](nil)
	require.Error(t, err)
	assert.Equal(t, rserr.InvalidArgument, asRSErr(t, err).Kind)
}

// TestSimpleRelativeFindsShiftedMatch mirrors the worked example of a
// keyword found under a constant positive shift: "catch" recovered at
// offset 2 of a buffer holding "fdwfk" after two filler bytes, a
// uniform +3 shift of every character.
func TestSimpleRelativeFindsShiftedMatch(t *testing.T) {
	m, err := New[uint8]([]rune("catch"), 0, nil)
	require.NoError(t, err)
	require.Equal(t, SimpleRelative, m.mode)

	data := []byte("xx" + "fdwfk" + "zzzz")
	matches, err := m.Search(data)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, uint64(2), matches[0].Offset)
	assert.Equal(t, byte('d'), byte(matches[0].Values['a']))
	assert.Equal(t, byte('D'), byte(matches[0].Values['A']))
}

func TestSimpleRelativeNoMatchInUnrelatedData(t *testing.T) {
	m, err := New[uint8]([]rune("catch"), 0, nil)
	require.NoError(t, err)

	matches, err := m.Search([]byte("the quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// TestWildcardRelativeSkipsWildcardPosition checks that an explicit
// wildcard character matches any code unit, recovering the equivalence
// map only from the constrained positions.
func TestWildcardRelativeSkipsWildcardPosition(t *testing.T) {
	m, err := New[uint8]([]rune("b*tter"), '*', nil)
	require.NoError(t, err)
	require.Equal(t, WildcardRelative, m.mode)

	// "b*tter" shifted by +5 at every non-wildcard position: g?yyjw
	data := []byte("__g?yyjw__")
	matches, err := m.Search(data)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(2), matches[0].Offset)
	assert.Equal(t, byte('f'), byte(matches[0].Values['a']))
}

// TestWildcardRelativeMixedCaseRecoversDistinctDeltas exercises the
// Delta/Delta' split for a keyword whose minority case (here the single
// uppercase letter) is replaced internally by a wildcard.
func TestWildcardRelativeMixedCaseRecoversDistinctDeltas(t *testing.T) {
	m, err := New[uint8]([]rune("Wallet"), 0, nil)
	require.NoError(t, err)
	require.Equal(t, WildcardRelative, m.mode)
	require.True(t, m.hasCaseChange)
	require.True(t, m.mostlyLowercase)

	// lowercase run "allet" shifted by +4 -> "eppix"; the uppercase 'W'
	// independently replaced by 'a' (W=87, +10=97).
	data := []byte("aeppix")
	matches, err := m.Search(data)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(0), matches[0].Offset)

	assert.Equal(t, byte('K'), byte(matches[0].Values['A']))
	assert.Equal(t, byte('e'), byte(matches[0].Values['a']))
}

// TestCustomSequenceRecoversMap builds a matcher over a user-supplied
// character ordering, where positions in the sequence (not ASCII code
// points) carry the relative-difference semantics.
func TestCustomSequenceRecoversMap(t *testing.T) {
	customSeq := []rune("thecmabxyz")
	m, err := New[uint8]([]rune("match"), 0, customSeq)
	require.NoError(t, err)
	require.Equal(t, SimpleRelative, m.mode)

	// index("match") under customSeq = [4,5,0,3,1], shifted by +2.
	data := []byte{6, 7, 2, 5, 3}
	matches, err := m.Search(data)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(0), matches[0].Offset)

	values := matches[0].Values
	assert.EqualValues(t, 6, values['m'])
	assert.EqualValues(t, 7, values['a'])
	assert.EqualValues(t, 2, values['t'])
	assert.EqualValues(t, 5, values['c'])
	assert.EqualValues(t, 3, values['h'])
	assert.EqualValues(t, 11, values['z'])
}

// TestValueScanFindsOffsetsOnly exercises value-scan mode: the
// "keyword" is a literal sequence of signed integers and a match
// carries no equivalence map.
func TestValueScanFindsOffsetsOnly(t *testing.T) {
	m, err := NewValueScan[uint16]([]int16{10, -5, 20, -5, 3})
	require.NoError(t, err)
	require.Equal(t, ValueScan, m.mode)

	data := []uint16{0, 0, 1010, 995, 1020, 995, 1003, 0}
	matches, err := m.Search(data)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(2), matches[0].Offset)
	assert.Nil(t, matches[0].Values)
}

func TestSearchReturnsEmptyWhenDataShorterThanKeyword(t *testing.T) {
	m, err := New[uint8]([]rune("catch"), 0, nil)
	require.NoError(t, err)

	matches, err := m.Search([]byte("ab"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
