// Package checkpoint implements resumable long-running scans: a
// gob-encoded snapshot of how many blocks a search has completed and
// the results gathered so far, adapted from the teacher's own
// search-resume checkpoint.
package checkpoint

import (
	"encoding/gob"
	"os"

	"github.com/relmoore/relmoore/pkg/config"
	"github.com/relmoore/relmoore/pkg/rserr"
)

// Checkpoint holds enough state to resume a search without
// re-scanning blocks it already completed.
type Checkpoint struct {
	CompletedBlocks int
	Results         []config.SearchResultRecord
}

// Save writes a checkpoint to path, overwriting it if it exists.
func Save(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return rserr.Wrap(rserr.IoError, err, "failed to create checkpoint file")
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(ckpt); err != nil {
		return rserr.Wrap(rserr.IoError, err, "failed to encode checkpoint")
	}
	return nil
}

// Load reads a checkpoint previously written by Save.
func Load(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rserr.Wrap(rserr.NotFound, err, "checkpoint file not found")
	}
	defer f.Close()

	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, rserr.Wrap(rserr.IoError, err, "failed to decode checkpoint")
	}
	return &ckpt, nil
}
