// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns markdown source documents into Jupyter notebooks
// with pluggable backends, regenerating an output only when it is stale
// relative to its source and the shared build configuration.
// See docs/ARCHITECTURE § Conversion.
package convert

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/nbpress/internal/stale"
	"github.com/pdiddy/nbpress/pkg/types"
)

// Converter transforms one markdown source document into a notebook.
// Backends: native (in-process) and notedown (external process).
type Converter interface {
	// Convert parses src and returns the notebook document.
	Convert(src []byte) (*types.Notebook, error)
}

// Action is the outcome of one conversion attempt.
type Action string

const (
	ActionConverted Action = "converted"
	ActionSkipped   Action = "skipped"
	ActionFailed    Action = "failed"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns the notebook path for a markdown source under outDir.
func OutputPath(sourcePath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return filepath.Join(outDir, base+".ipynb")
}

// ListSources returns the markdown documents under dir in lexical order.
// The order is the packaging and rendering order, so it must be stable.
func ListSources(dir string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		sources = append(sources, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing sources in %s: %w", dir, err)
	}
	sort.Strings(sources)
	return sources, nil
}

// ConvertFile converts sourcePath to outPath unless outPath is already
// fresh relative to the source and configPath. An empty configPath means
// no shared configuration participates in the staleness check. The
// notebook is written to a temporary sibling and renamed into place, so a
// failed conversion never leaves a fresher-timestamped partial artifact
// behind.
func ConvertFile(c Converter, sourcePath, configPath, outPath string, w io.Writer) (Action, error) {
	base := filepath.Base(sourcePath)

	inputs := []string{sourcePath}
	if configPath != "" {
		inputs = append(inputs, configPath)
	}
	rebuild, err := stale.Stale(outPath, inputs...)
	if err != nil {
		return ActionFailed, err
	}
	if !rebuild {
		fmt.Fprintf(w, "skipped: %s (up to date)\n", base)
		return ActionSkipped, nil
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return ActionFailed, fmt.Errorf("reading %s: %w", sourcePath, err)
	}

	nb, err := c.Convert(src)
	if err != nil {
		return ActionFailed, fmt.Errorf("converting %s: %w", base, err)
	}

	data, err := nb.Encode()
	if err != nil {
		return ActionFailed, fmt.Errorf("encoding notebook for %s: %w", base, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return ActionFailed, fmt.Errorf("creating output directory: %w", err)
	}

	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return ActionFailed, fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return ActionFailed, fmt.Errorf("replacing %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "converted: %s\n", base)
	return ActionConverted, nil
}

// BatchObserver is notified after each conversion attempt in a batch. The
// build-log recorder plugs in here; a nil observer is a no-op.
type BatchObserver func(source, output string, action Action, elapsed time.Duration)

// ConvertBatch converts sources into outDir sequentially, printing per-file
// status to w and notifying obs per file. The first failure aborts the
// batch; earlier outputs stay on disk for inspection and regenerate
// deterministically on the next run.
func ConvertBatch(c Converter, sources []string, configPath, outDir string, w io.Writer, obs BatchObserver) (BatchResult, error) {
	var result BatchResult
	for _, src := range sources {
		out := OutputPath(src, outDir)
		start := time.Now()

		action, err := ConvertFile(c, src, configPath, out, w)
		if obs != nil {
			obs(src, out, action, time.Since(start))
		}

		switch action {
		case ActionConverted:
			result.Converted++
		case ActionSkipped:
			result.Skipped++
		case ActionFailed:
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(src), err)
			return result, err
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped (total: %d)\n",
		result.Converted, result.Skipped, result.Total())
	return result, nil
}
