package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestASCIIClassifiers(t *testing.T) {
	assert.True(t, IsASCIIUpper('A'))
	assert.True(t, IsASCIIUpper('Z'))
	assert.False(t, IsASCIIUpper('a'))
	assert.False(t, IsASCIIUpper(0x391)) // Greek capital alpha: not ASCII

	assert.True(t, IsASCIILower('a'))
	assert.False(t, IsASCIILower('A'))

	assert.True(t, IsASCIIDigit('0'))
	assert.True(t, IsASCIIDigit('9'))
	assert.False(t, IsASCIIDigit('a'))
}

func TestFindLastIndex(t *testing.T) {
	seq := []rune{'a', 'b', '*', 'c', '*', 'd'}
	assert.Equal(t, 4, FindLastIndex(seq, '*'))
	assert.Equal(t, -1, FindLastIndex(seq, 'z'))
}

func TestCountPrefixLength(t *testing.T) {
	seq := []rune{'*', '*', 'a', '*'}
	assert.Equal(t, 2, CountPrefixLength(seq, '*'))
	assert.Equal(t, 0, CountPrefixLength(seq, 'a'))
}
