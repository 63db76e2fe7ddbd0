package engine

import (
	"sort"
	"sync"

	"github.com/relmoore/relmoore/pkg/config"
	"github.com/relmoore/relmoore/pkg/unit"
)

// resultSet accumulates search results from concurrent workers behind
// a mutex and returns them sorted by ascending file offset, the way
// the engine's per-worker result aggregation requires.
type resultSet[T unit.Type] struct {
	mu      sync.Mutex
	results []config.SearchResult[T]
}

// Add appends local, one worker's results, under the set's lock.
func (rs *resultSet[T]) Add(local []config.SearchResult[T]) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.results = append(rs.results, local...)
}

// Len returns the number of results accumulated so far.
func (rs *resultSet[T]) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.results)
}

// Sorted returns a copy of the accumulated results ordered by
// ascending file offset. Duplicate offsets (from different code-unit
// alignments matching at the same position) are preserved.
func (rs *resultSet[T]) Sorted() []config.SearchResult[T] {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]config.SearchResult[T], len(rs.results))
	copy(out, rs.results)
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}
