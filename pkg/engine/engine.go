// Package engine implements the parallel search engine: it owns a
// relative matcher, drives a bounded worker pool over a file's block
// plan, aggregates and sorts results, and attaches previews.
package engine

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/relmoore/relmoore/pkg/block"
	"github.com/relmoore/relmoore/pkg/config"
	"github.com/relmoore/relmoore/pkg/dbg"
	"github.com/relmoore/relmoore/pkg/matcher"
	"github.com/relmoore/relmoore/pkg/preview"
	"github.com/relmoore/relmoore/pkg/rserr"
	"github.com/relmoore/relmoore/pkg/unit"
)

// Engine runs one search defined by a config.SearchConfig, for a
// chosen code-unit width T.
type Engine[T unit.Type] struct {
	cfg     config.SearchConfig
	matcher *matcher.Matcher[T]
	log     *dbg.Logger
	rs      *resultSet[T]
}

// New builds an Engine, constructing its matcher from cfg. Matcher
// construction errors (InvalidArgument) surface here, synchronously.
func New[T unit.Type](cfg config.SearchConfig) (*Engine[T], error) {
	e := &Engine[T]{cfg: cfg, log: dbg.New(cfg.Verbose)}

	e.log.Printf("config: file_path = %s", cfg.FilePath)
	e.log.Printf("config: is_relative_search = %v", cfg.IsRelativeSearch)
	e.log.Printf("config: endianness = %s", cfg.Endianness)
	e.log.Printf("config: keyword (len) = %d", len(cfg.Keyword))
	e.log.Printf("config: custom_char_seq (len) = %d", len(cfg.CustomCharSeq))
	e.log.Printf("config: wildcard = %q", cfg.Wildcard)
	e.log.Printf("config: reference_values (size) = %d", len(cfg.ReferenceValues))
	e.log.Printf("config: preferred_num_threads = %d", cfg.PreferredNumThreads)
	e.log.Printf("config: preferred_search_block_size = %d", cfg.PreferredSearchBlockSize)
	e.log.Printf("config: preferred_preview_width = %d", cfg.PreferredPreviewWidth)

	var m *matcher.Matcher[T]
	var err error
	if cfg.IsRelativeSearch {
		m, err = matcher.New[T](cfg.Keyword, cfg.Wildcard, cfg.CustomCharSeq)
	} else {
		m, err = matcher.NewValueScan[T](cfg.ReferenceValues)
	}
	if err != nil {
		return nil, err
	}

	e.matcher = m
	return e, nil
}

// resumeState carries the subset of a checkpoint needed to resume a
// run: blocks with an index below CompletedBlocks are skipped, and
// priorResults is seeded into the final result set.
type resumeState[T unit.Type] struct {
	completedBlocks int
	priorResults    []config.SearchResult[T]
}

// Run executes the search: it validates the file, computes the block
// plan, dispatches a bounded pool of workers, aggregates and sorts
// results, and (if wantPreviews) attaches a rendered preview to each.
func (e *Engine[T]) Run(ctx context.Context, progress config.ProgressFunc, abort *atomic.Bool, wantPreviews bool) ([]config.SearchResult[T], error) {
	return e.run(ctx, progress, abort, wantPreviews, nil)
}

// ResumeFrom behaves like Run but skips blocks already covered by a
// prior run (resume.completedBlocks) and seeds resume.priorResults
// into the merged result set before sorting.
func (e *Engine[T]) ResumeFrom(ctx context.Context, progress config.ProgressFunc, abort *atomic.Bool, wantPreviews bool, completedBlocks int, priorResults []config.SearchResult[T]) ([]config.SearchResult[T], error) {
	return e.run(ctx, progress, abort, wantPreviews, &resumeState[T]{completedBlocks: completedBlocks, priorResults: priorResults})
}

// Snapshot returns the results accumulated so far by the run in
// progress, sorted by offset. Safe to call from a ProgressFunc: it
// reads through the same mutex-guarded resultSet the workers write to.
// Returns nil before the first run has started; once a run has
// returned, it keeps returning that run's accumulated results (without
// previews).
func (e *Engine[T]) Snapshot() []config.SearchResult[T] {
	if e.rs == nil {
		return nil
	}
	return e.rs.Sorted()
}

func (e *Engine[T]) run(ctx context.Context, progress config.ProgressFunc, abort *atomic.Bool, wantPreviews bool, resume *resumeState[T]) ([]config.SearchResult[T], error) {
	if progress == nil {
		progress = func(int, config.Step) {}
	}
	if abort == nil {
		abort = &atomic.Bool{}
	}

	info, err := os.Stat(e.cfg.FilePath)
	if err != nil {
		return nil, rserr.Wrap(rserr.NotFound, err, "search file not found")
	}
	fileSize := uint64(info.Size())

	progress(0, config.Initializing)

	patternLen := len(e.cfg.Keyword)
	if !e.cfg.IsRelativeSearch {
		patternLen = len(e.cfg.ReferenceValues)
	}
	blocks := block.Plan(fileSize, patternLen, unit.Size[T](), e.cfg.PreferredSearchBlockSize)
	e.log.Printf("compute_search_blocks: num_blocks = %d", len(blocks))

	rs := &resultSet[T]{}
	e.rs = rs
	if resume != nil {
		rs.Add(resume.priorResults)
	}

	numThreads := e.cfg.PreferredNumThreads
	if numThreads <= 0 {
		numThreads = 1
	}

	group, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(numThreads))

	var progressMu sync.Mutex
	var completed int
	totalBlocks := len(blocks)
	if resume != nil {
		totalBlocks -= resume.completedBlocks
	}
	if totalBlocks <= 0 {
		totalBlocks = 1
	}
	progress(0, config.Searching)

	aborted := false

dispatch:
	for i, blk := range blocks {
		if resume != nil && i < resume.completedBlocks {
			continue
		}
		if abort.Load() {
			aborted = true
			break dispatch
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			break dispatch
		}

		blk := blk
		group.Go(func() error {
			defer sem.Release(1)

			e.log.Printf("Worker spawned for block [offset=%d, size=%d]", blk.Offset, blk.Length)

			local, werr := runWorker[T](e.cfg.FilePath, blk, e.matcher, e.cfg.Endianness)
			if werr != nil {
				return werr
			}

			converted := make([]config.SearchResult[T], len(local))
			for i, lr := range local {
				converted[i] = config.SearchResult[T]{Offset: lr.offset, ValuesMap: lr.valuesMap}
			}
			rs.Add(converted)

			progressMu.Lock()
			completed++
			percent := completed * 100 / totalBlocks
			progress(percent, config.Searching)
			progressMu.Unlock()

			e.log.Printf("Worker finished - found %d matches", len(local))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if aborted || abort.Load() {
		progress(100, config.Aborting)
		return nil, nil
	}

	results := rs.Sorted()

	e.log.Printf("Search completed - %d results found", len(results))

	if wantPreviews && len(results) > 0 {
		progress(100, config.GeneratingPreviews)
		if err := e.attachPreviews(results, fileSize, patternLen); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (e *Engine[T]) attachPreviews(results []config.SearchResult[T], fileSize uint64, patternLen int) error {
	f, err := os.Open(e.cfg.FilePath)
	if err != nil {
		return rserr.Wrap(rserr.IoError, err, "failed to open file to generate previews")
	}
	defer f.Close()

	u := unit.Size[T]()

	for i := range results {
		win := preview.Plan(fileSize, results[i].Offset, patternLen, u, e.cfg.PreferredPreviewWidth)

		raw := make([]byte, win.Length)
		if win.Length > 0 {
			if _, err := f.ReadAt(raw, int64(win.StartOffset)); err != nil {
				return rserr.Wrap(rserr.IoError, err, "failed to read preview window")
			}
		}

		data, err := alignedCodeUnits[T](raw, 0, e.cfg.Endianness)
		if err != nil {
			return err
		}

		if !e.cfg.IsRelativeSearch {
			results[i].Preview = preview.DecodeValueScan(data)
			continue
		}
		results[i].Preview = preview.DecodeRelative(results[i].ValuesMap, e.cfg.CustomCharSeq, data)
	}

	return nil
}
