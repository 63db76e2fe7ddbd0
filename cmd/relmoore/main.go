package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/relmoore/relmoore/pkg/checkpoint"
	"github.com/relmoore/relmoore/pkg/config"
	"github.com/relmoore/relmoore/pkg/dbg"
	"github.com/relmoore/relmoore/pkg/engine"
	"github.com/relmoore/relmoore/pkg/unit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relmoore",
		Short: "relmoore — relative search engine for recovering character tables from binary files",
	}

	rootCmd.AddCommand(newSearchCmd(), newResumeCmd(), newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// searchFlags holds every flag shared by the search and resume
// commands, bound with cmd.Flags().*Var the way the teacher's CLI
// does.
type searchFlags struct {
	keyword      string
	wildcard     string
	customSeq    string
	values       string
	unitWidth    int
	endianness   string
	threads      int
	blockSize    int
	previewWidth int
	previews     bool
	output       string
	checkpoint   string
	verbose      bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keyword, "keyword", "", "keyword to search for (relative search mode)")
	cmd.Flags().StringVar(&f.wildcard, "wildcard", "*", "wildcard character, empty to disable")
	cmd.Flags().StringVar(&f.customSeq, "custom-seq", "", "custom character sequence defining the alphabet order")
	cmd.Flags().StringVar(&f.values, "values", "", "comma-separated signed 16-bit reference values (value-scan mode)")
	cmd.Flags().IntVar(&f.unitWidth, "unit-width", 8, "code-unit width in bits: 8 or 16")
	cmd.Flags().StringVar(&f.endianness, "endian", "little", "endianness for 16-bit reads: little or big")
	cmd.Flags().IntVar(&f.threads, "threads", 4, "maximum worker parallelism")
	cmd.Flags().IntVar(&f.blockSize, "block-size", 524288, "base search block size in bytes")
	cmd.Flags().IntVar(&f.previewWidth, "preview-width", 50, "preview window width in code units")
	cmd.Flags().BoolVar(&f.previews, "previews", false, "generate previews for each match")
	cmd.Flags().StringVar(&f.output, "output", "", "write results as JSON to this path")
	cmd.Flags().StringVar(&f.checkpoint, "checkpoint", "", "checkpoint file to save progress to")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "verbose debug logging")
}

func (f *searchFlags) buildConfig(filePath string) (config.SearchConfig, error) {
	cfg := config.DefaultSearchConfig()
	cfg.FilePath = filePath
	cfg.Verbose = f.verbose
	cfg.PreferredNumThreads = f.threads
	cfg.PreferredSearchBlockSize = uint32(f.blockSize)
	cfg.PreferredPreviewWidth = f.previewWidth

	switch strings.ToLower(f.endianness) {
	case "", "little":
	case "big":
		cfg.Endianness = 1
	default:
		return cfg, fmt.Errorf("unknown endianness %q", f.endianness)
	}

	if f.values != "" {
		cfg.IsRelativeSearch = false
		vals, err := parseValues(f.values)
		if err != nil {
			return cfg, err
		}
		cfg.ReferenceValues = vals
		return cfg, nil
	}

	if f.keyword == "" {
		return cfg, fmt.Errorf("--keyword is required unless --values is given")
	}
	cfg.Keyword = []rune(f.keyword)
	cfg.Wildcard = 0
	if f.wildcard != "" {
		cfg.Wildcard = []rune(f.wildcard)[0]
	}
	if f.customSeq != "" {
		cfg.CustomCharSeq = []rune(f.customSeq)
	}
	return cfg, nil
}

func parseValues(s string) ([]int16, error) {
	parts := strings.Split(s, ",")
	out := make([]int16, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid reference value %q: %w", p, err)
		}
		out = append(out, int16(v))
	}
	return out, nil
}

// runSearch dispatches to the generic engine for the configured
// code-unit width and returns the width-erased records ready for
// JSON export or checkpointing.
func runSearch(ctx context.Context, flags *searchFlags, cfg config.SearchConfig, resumeCkpt *checkpoint.Checkpoint) ([]config.SearchResultRecord, error) {
	log := dbg.New(cfg.Verbose)

	// Checkpointing relies on "all blocks before this index are done"
	// holding at every save. Under bounded concurrency blocks complete
	// out of dispatch order, so a flat completed-block counter can't
	// be trusted above one worker; force sequential dispatch whenever
	// a checkpoint is requested.
	if flags.checkpoint != "" && cfg.PreferredNumThreads > 1 {
		fmt.Println("checkpointing requires sequential block dispatch; forcing --threads=1")
		cfg.PreferredNumThreads = 1
	}

	// The engine reports one Searching tick before it dispatches any
	// block and one more after each completed block, so tick starts one
	// below the number of blocks already done.
	startTick := -1
	if resumeCkpt != nil {
		startTick = resumeCkpt.CompletedBlocks - 1
	}

	abort := &atomic.Bool{}

	switch flags.unitWidth {
	case 8:
		eng, err := engine.New[uint8](cfg)
		if err != nil {
			return nil, err
		}
		tick := startTick
		progress := func(percent int, step config.Step) {
			if flags.verbose {
				fmt.Printf("progress: %3d%% (%s)\n", percent, step)
			}
			if step == config.Searching && flags.checkpoint != "" {
				tick++
				ckpt := &checkpoint.Checkpoint{CompletedBlocks: tick, Results: toRecords(eng.Snapshot())}
				if err := checkpoint.Save(flags.checkpoint, ckpt); err != nil {
					log.Printf("checkpoint save failed: %v", err)
				}
			}
		}
		var results []config.SearchResult[uint8]
		if resumeCkpt != nil {
			prior := make([]config.SearchResult[uint8], len(resumeCkpt.Results))
			for i, r := range resumeCkpt.Results {
				prior[i] = config.FromRecord[uint8](r)
			}
			results, err = eng.ResumeFrom(ctx, progress, abort, flags.previews, resumeCkpt.CompletedBlocks, prior)
		} else {
			results, err = eng.Run(ctx, progress, abort, flags.previews)
		}
		if err != nil {
			return nil, err
		}
		return toRecords(results), nil
	case 16:
		eng, err := engine.New[uint16](cfg)
		if err != nil {
			return nil, err
		}
		tick := startTick
		progress := func(percent int, step config.Step) {
			if flags.verbose {
				fmt.Printf("progress: %3d%% (%s)\n", percent, step)
			}
			if step == config.Searching && flags.checkpoint != "" {
				tick++
				ckpt := &checkpoint.Checkpoint{CompletedBlocks: tick, Results: toRecords(eng.Snapshot())}
				if err := checkpoint.Save(flags.checkpoint, ckpt); err != nil {
					log.Printf("checkpoint save failed: %v", err)
				}
			}
		}
		var results []config.SearchResult[uint16]
		if resumeCkpt != nil {
			prior := make([]config.SearchResult[uint16], len(resumeCkpt.Results))
			for i, r := range resumeCkpt.Results {
				prior[i] = config.FromRecord[uint16](r)
			}
			results, err = eng.ResumeFrom(ctx, progress, abort, flags.previews, resumeCkpt.CompletedBlocks, prior)
		} else {
			results, err = eng.Run(ctx, progress, abort, flags.previews)
		}
		if err != nil {
			return nil, err
		}
		return toRecords(results), nil
	default:
		return nil, fmt.Errorf("unsupported unit width %d (must be 8 or 16)", flags.unitWidth)
	}
}

func toRecords[T unit.Type](results []config.SearchResult[T]) []config.SearchResultRecord {
	out := make([]config.SearchResultRecord, len(results))
	for i, r := range results {
		out[i] = config.ToRecord(r)
	}
	return out
}

func newSearchCmd() *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search [file]",
		Short: "search a binary file for a relative encoding of a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig(args[0])
			if err != nil {
				return fmt.Errorf("relmoore search: %w", err)
			}

			records, err := runSearch(cmd.Context(), flags, cfg, nil)
			if err != nil {
				return fmt.Errorf("relmoore search: %w", err)
			}

			fmt.Printf("Found %d match(es)\n", len(records))
			for _, r := range records {
				fmt.Printf("  offset=%d preview=%q\n", r.Offset, r.Preview)
			}

			if flags.output != "" {
				if err := writeJSON(flags.output, records); err != nil {
					return fmt.Errorf("relmoore search: %w", err)
				}
				fmt.Printf("Written to %s\n", flags.output)
			}

			if flags.checkpoint != "" {
				final := &checkpoint.Checkpoint{CompletedBlocks: -1, Results: records}
				if err := checkpoint.Save(flags.checkpoint, final); err != nil {
					return fmt.Errorf("relmoore search: %w", err)
				}
			}

			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newResumeCmd() *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "resume [file]",
		Short: "resume a search from a checkpoint file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.checkpoint == "" {
				return fmt.Errorf("relmoore resume: --checkpoint is required")
			}

			ckpt, err := checkpoint.Load(flags.checkpoint)
			if err != nil {
				return fmt.Errorf("relmoore resume: %w", err)
			}

			var records []config.SearchResultRecord
			if ckpt.CompletedBlocks < 0 {
				fmt.Println("checkpoint already represents a completed run; nothing to resume")
				records = ckpt.Results
			} else {
				cfg, err := flags.buildConfig(args[0])
				if err != nil {
					return fmt.Errorf("relmoore resume: %w", err)
				}

				records, err = runSearch(cmd.Context(), flags, cfg, ckpt)
				if err != nil {
					return fmt.Errorf("relmoore resume: %w", err)
				}
			}

			fmt.Printf("Found %d match(es)\n", len(records))

			if flags.output != "" {
				if err := writeJSON(flags.output, records); err != nil {
					return fmt.Errorf("relmoore resume: %w", err)
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [results.json]",
		Short: "re-emit a saved result set in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("relmoore export: %w", err)
			}
			defer f.Close()

			var records []config.SearchResultRecord
			if err := json.NewDecoder(f).Decode(&records); err != nil {
				return fmt.Errorf("relmoore export: %w", err)
			}

			switch format {
			case "json":
				return json.NewEncoder(os.Stdout).Encode(records)
			case "csv":
				return writeCSV(os.Stdout, records)
			default:
				return fmt.Errorf("relmoore export: unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: json or csv")
	return cmd
}

func writeJSON(path string, records []config.SearchResultRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeCSV(w *os.File, records []config.SearchResultRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"offset", "preview"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{strconv.FormatUint(r.Offset, 10), r.Preview}); err != nil {
			return err
		}
	}
	return nil
}
