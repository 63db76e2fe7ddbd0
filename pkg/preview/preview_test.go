package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shiftedFile builds the spec's worked preview example: a file of
// punctuation/space-separated repeats of "theater"-derived words,
// every byte shifted by +0x10.
func shiftedFile() []byte {
	base := "#####the theater's theatrical theatergoer thanked the theatrical theater's theatrics####"
	out := make([]byte, len(base))
	for i := 0; i < len(base); i++ {
		out[i] = byte(int(base[i]) + 0x10)
	}
	return out
}

func TestPlanAndDecodeRelativeWorkedExample(t *testing.T) {
	file := shiftedFile()

	values := map[rune]byte{'a': 'a' + 0x10, 'A': 'A' + 0x10}

	win := Plan(uint64(len(file)), 9, len("theater"), 1, 25)
	require.EqualValues(t, 25, win.Length)

	raw := file[win.StartOffset : win.StartOffset+uint64(win.Length)]
	got := DecodeRelative(values, nil, raw)
	assert.Equal(t, "#####the#theater#s#theatr", got)
}

func TestPlanClampsAtFileStart(t *testing.T) {
	win := Plan(1000, 2, 20, 1, 50)
	assert.EqualValues(t, 0, win.StartOffset)
}

func TestPlanClampsAtFileEnd(t *testing.T) {
	win := Plan(100, 95, 5, 1, 50)
	assert.LessOrEqual(t, win.StartOffset+uint64(win.Length), uint64(100))
}

func TestDecodeValueScanHexDump(t *testing.T) {
	raw := []uint16{0x0105, 0x00AB, 0x0000}
	assert.Equal(t, "0105 00AB 0000", DecodeValueScan(raw))
}

func TestDecodeRelativeUnmappedRendersHash(t *testing.T) {
	values := map[rune]byte{'a': 100}
	raw := []byte{100, 200}
	assert.Equal(t, "a#", DecodeRelative(values, nil, raw))
}
