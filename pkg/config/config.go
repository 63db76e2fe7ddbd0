// Package config holds the engine's external interface: the
// caller-supplied SearchConfig, the SearchResult it returns, the
// progress enum and callback type, and a width-erased result record
// used when a result set needs to survive outside the generic engine
// (JSON export, checkpoint files).
package config

import (
	"github.com/relmoore/relmoore/pkg/byteorder"
	"github.com/relmoore/relmoore/pkg/unit"
)

// Step identifies a phase of a search run, reported through
// ProgressFunc. It replaces the original engine's human-readable
// progress tag with a closed, localizable enum.
type Step int

const (
	Initializing Step = iota
	Searching
	GeneratingPreviews
	Aborting
)

func (s Step) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Searching:
		return "Searching"
	case GeneratingPreviews:
		return "GeneratingPreviews"
	case Aborting:
		return "Aborting"
	default:
		return "Unknown"
	}
}

// ProgressFunc receives a percent in [0,100] and the step it belongs
// to. The engine calls it synchronously and serializes calls through
// its progress mutex, so percent is non-decreasing across the calls a
// single caller observes.
type ProgressFunc func(percent int, step Step)

// SearchConfig is the complete set of caller-supplied options for one
// search run.
type SearchConfig struct {
	FilePath string

	IsRelativeSearch bool
	Endianness       byteorder.Endianness

	Keyword       []rune
	CustomCharSeq []rune
	Wildcard      rune

	ReferenceValues []int16

	PreferredNumThreads      int
	PreferredSearchBlockSize uint32
	PreferredPreviewWidth    int

	Verbose bool
}

// DefaultSearchConfig returns a config with the same defaults the
// original engine used.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		IsRelativeSearch:         true,
		Endianness:               byteorder.Little,
		Wildcard:                 '*',
		PreferredNumThreads:      4,
		PreferredSearchBlockSize: 524288,
		PreferredPreviewWidth:    50,
	}
}

// SearchResult is one hit returned by the engine: a file byte offset,
// the recovered equivalence map, and (when requested) a rendered
// preview.
type SearchResult[T unit.Type] struct {
	Offset    uint64
	ValuesMap map[rune]T
	Preview   string
}

// SearchResultRecord is a width-erased copy of a SearchResult, used
// wherever a result needs to leave the generic engine boundary: JSON
// export and checkpoint files. Values are always stored widened to
// uint32 since both supported code-unit widths (8-bit, 16-bit) fit.
type SearchResultRecord struct {
	Offset    uint64
	ValuesMap map[rune]uint32
	Preview   string
}

// ToRecord widens a SearchResult to its width-erased form.
func ToRecord[T unit.Type](r SearchResult[T]) SearchResultRecord {
	rec := SearchResultRecord{
		Offset:  r.Offset,
		Preview: r.Preview,
	}
	if r.ValuesMap != nil {
		rec.ValuesMap = make(map[rune]uint32, len(r.ValuesMap))
		for k, v := range r.ValuesMap {
			rec.ValuesMap[k] = uint32(v)
		}
	}
	return rec
}

// FromRecord narrows a width-erased record back to a SearchResult[T].
func FromRecord[T unit.Type](rec SearchResultRecord) SearchResult[T] {
	r := SearchResult[T]{
		Offset:  rec.Offset,
		Preview: rec.Preview,
	}
	if rec.ValuesMap != nil {
		r.ValuesMap = make(map[rune]T, len(rec.ValuesMap))
		for k, v := range rec.ValuesMap {
			r.ValuesMap[k] = T(v)
		}
	}
	return r
}
