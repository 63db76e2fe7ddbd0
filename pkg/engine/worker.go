package engine

import (
	"fmt"
	"os"

	"github.com/relmoore/relmoore/pkg/block"
	"github.com/relmoore/relmoore/pkg/byteorder"
	"github.com/relmoore/relmoore/pkg/matcher"
	"github.com/relmoore/relmoore/pkg/rserr"
	"github.com/relmoore/relmoore/pkg/unit"
)

// workerResult is one worker's contribution before translation into a
// config.SearchResult: a matcher hit plus the file byte offset it was
// found at.
type workerResult[T unit.Type] struct {
	offset    uint64
	valuesMap map[rune]T
}

// runWorker executes the per-block algorithm: it opens its own
// read-only handle to filePath (workers never share a handle), sweeps
// every code-unit alignment within the block, and invokes m once per
// alignment.
func runWorker[T unit.Type](filePath string, blk block.Block, m *matcher.Matcher[T], desired byteorder.Endianness) ([]workerResult[T], error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, rserr.Wrap(rserr.IoError, err, fmt.Sprintf("worker failed to open %s", filePath))
	}
	defer f.Close()

	raw := make([]byte, blk.Length)
	if _, err := f.ReadAt(raw, int64(blk.Offset)); err != nil {
		return nil, rserr.Wrap(rserr.IoError, err, fmt.Sprintf("worker failed to read block at offset %d", blk.Offset))
	}

	u := unit.Size[T]()

	var results []workerResult[T]

	for alignment := 0; alignment < u; alignment++ {
		data, err := alignedCodeUnits[T](raw, alignment, desired)
		if err != nil {
			return nil, err
		}

		matches, err := m.Search(data)
		if err != nil {
			return nil, err
		}

		for _, mm := range matches {
			fileOffset := blk.Offset + mm.Offset*uint64(u) + uint64(alignment)
			results = append(results, workerResult[T]{offset: fileOffset, valuesMap: mm.Values})
		}
	}

	return results, nil
}

// alignedCodeUnits reinterprets raw, starting at byte offset
// alignment, as a sequence of T, adjusting endianness if needed. It
// never mutates raw: alignment sweeps share the same underlying bytes
// but each gets a freshly decoded slice.
func alignedCodeUnits[T unit.Type](raw []byte, alignment int, desired byteorder.Endianness) ([]T, error) {
	u := unit.Size[T]()

	available := len(raw) - alignment
	if available < 0 {
		return nil, nil
	}

	count := available / u

	// Reinterpret raw bytes as T in host-native order first, mirroring
	// the original's reinterpret_cast onto the raw buffer; Adjust below
	// then swaps to the configured endianness only if it differs from
	// the host's.
	hostLittle := byteorder.Host() == byteorder.Little

	out := make([]T, count)
	for i := 0; i < count; i++ {
		start := alignment + i*u
		if u == 1 {
			out[i] = T(raw[start])
			continue
		}
		lo, hi := raw[start], raw[start+1]
		if !hostLittle {
			lo, hi = hi, lo
		}
		out[i] = T(uint16(lo) | uint16(hi)<<8)
	}

	byteorder.Adjust(out, desired)
	return out, nil
}
