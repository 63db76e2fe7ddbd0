package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCoversExactly(t *testing.T) {
	const fileSize = 1_000_000
	const base = 262144
	blocks := Plan(fileSize, 5, 1, base)
	require.NotEmpty(t, blocks)

	var covered uint64
	for i, b := range blocks {
		assert.Equal(t, uint64(i)*base, b.Offset)
		covered = b.Offset + uint64(b.Length)
	}
	assert.GreaterOrEqual(t, covered, uint64(fileSize))
	assert.Equal(t, blocks[len(blocks)-1].Offset+uint64(blocks[len(blocks)-1].Length), uint64(fileSize))
}

func TestPlanOverlap(t *testing.T) {
	blocks := Plan(1000, 5, 2, 300)
	require.Len(t, blocks, 4)
	// overlap = (5-1)*2 = 8 bytes, except for the trailing block.
	for _, b := range blocks[:len(blocks)-1] {
		assert.Equal(t, uint32(308), b.Length)
	}
	last := blocks[len(blocks)-1]
	assert.Equal(t, uint64(900), last.Offset)
	assert.Equal(t, uint32(100), last.Length)
}

func TestPlanSingleBlockWhenBaseExceedsFile(t *testing.T) {
	blocks := Plan(100, 5, 1, 1<<20)
	require.Len(t, blocks, 1)
	assert.Equal(t, uint64(0), blocks[0].Offset)
	assert.Equal(t, uint32(100), blocks[0].Length)
}

func TestPlanEmptyFile(t *testing.T) {
	assert.Empty(t, Plan(0, 5, 1, 1024))
}
