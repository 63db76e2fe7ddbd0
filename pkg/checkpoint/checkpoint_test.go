package checkpoint

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmoore/relmoore/pkg/config"
	"github.com/relmoore/relmoore/pkg/rserr"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.ckpt")

	original := &Checkpoint{
		CompletedBlocks: 3,
		Results: []config.SearchResultRecord{
			{Offset: 10, ValuesMap: map[rune]uint32{'a': 100, 'A': 68}, Preview: "hello"},
		},
	}

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.CompletedBlocks, loaded.CompletedBlocks)
	assert.Equal(t, original.Results, loaded.Results)
}

func TestLoadMissingFileReturnsNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ckpt"))
	require.Error(t, err)

	var rerr *rserr.Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, rserr.NotFound, rerr.Kind)
}
