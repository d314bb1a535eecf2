package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caldew/redline"
	"github.com/caldew/redline/internal/fsutil"
	"github.com/caldew/redline/pkg/engine"
)

// buildEngine constructs the engine client from the loaded config. With
// --no-engine set it returns nil and the internal renderer is used.
func buildEngine(noEngine bool) (*engine.Client, error) {
	if noEngine {
		return nil, nil
	}

	opts := []engine.Option{engine.WithLogger(slog.Default())}
	if cfg.Engine.BinDir != "" {
		opts = append(opts, engine.WithBinDir(cfg.Engine.BinDir))
	}
	if cfg.Engine.LayerDir != "" {
		opts = append(opts, engine.WithLayerDir(cfg.Engine.LayerDir))
	}
	if cfg.Engine.ArchiveDir != "" {
		opts = append(opts, engine.WithArchiveDir(cfg.Engine.ArchiveDir))
	}
	if cfg.Engine.TargetDir != "" {
		opts = append(opts, engine.WithTargetDir(cfg.Engine.TargetDir))
	}
	return engine.New(opts...)
}

// runOptions translates config and flags into library options.
func runOptions(eng *engine.Client, fallback bool) []redline.Option {
	opts := []redline.Option{
		redline.WithAuthorTag(cfg.AuthorTag),
		redline.WithLogger(slog.Default()),
		redline.WithFallback(fallback || cfg.Fallback),
	}
	if eng != nil {
		opts = append(opts, redline.WithEngine(eng))
	}
	return opts
}

// outputPath derives the output file name from the input when no explicit
// -o flag was given.
func outputPath(input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".redlined" + ext
}

func writeOutput(path string, data []byte) error {
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// printReport summarizes a pipeline result on stdout. Unmatched fragments
// are warnings, not failures.
func printReport(res *redline.Result) {
	fmt.Printf("Applied %d change(s)", res.Applied)
	if res.Skipped > 0 {
		fmt.Printf(", skipped %d unrecognized record(s)", res.Skipped)
	}
	fmt.Println(".")
	for _, frag := range res.Unmatched {
		fmt.Fprintf(os.Stderr, "Warning: no match for %q\n", frag)
	}
	if res.UsedFallback {
		fmt.Fprintln(os.Stderr, "Warning: engine failed, redline rendered with the internal highlighter")
	}
}
