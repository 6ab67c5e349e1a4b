// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render drives the external documentation generator and the
// typesetting engine to produce HTML and PDF trees from the converted
// notebooks. See docs/ARCHITECTURE § Rendering.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/nbpress/internal/tools"
	"github.com/pdiddy/nbpress/pkg/types"
)

// latexPasses is how many times the typesetting engine runs. The first
// pass computes cross-reference numbers, the second renders them; both run
// unconditionally.
const latexPasses = 2

// HTML renders the notebooks in notebooksDir into an HTML tree at htmlDir
// using the configured static generator. Tool output goes to w.
func HTML(gen tools.Runner, notebooksDir, htmlDir string, w io.Writer) error {
	if !gen.Available() {
		return fmt.Errorf("documentation generator %s not found on PATH", gen.Name())
	}
	if err := gen.Run("", nil, w, w, "-b", "html", notebooksDir, htmlDir); err != nil {
		return fmt.Errorf("html build: %w", err)
	}
	return nil
}

// PDF renders the notebooks to LaTeX, applies the configured text
// substitutions to the generated markup, and typesets it twice so
// cross-reference numbering resolves.
func PDF(gen, latex tools.Runner, cfg types.RenderConfig, notebooksDir, latexDir string, w io.Writer) error {
	if !gen.Available() {
		return fmt.Errorf("documentation generator %s not found on PATH", gen.Name())
	}
	if !latex.Available() {
		return fmt.Errorf("typesetting engine %s not found on PATH", latex.Name())
	}

	if err := gen.Run("", nil, w, w, "-b", "latex", notebooksDir, latexDir); err != nil {
		return fmt.Errorf("latex build: %w", err)
	}

	texPath := filepath.Join(latexDir, cfg.TexFile)
	if err := SubstituteTex(texPath, cfg.TexSubstitutions); err != nil {
		return err
	}

	for pass := 1; pass <= latexPasses; pass++ {
		fmt.Fprintf(w, "typesetting pass %d/%d\n", pass, latexPasses)
		err := latex.Run(latexDir, nil, w, w, "-interaction=nonstopmode", cfg.TexFile)
		if err != nil {
			return fmt.Errorf("typesetting pass %d: %w", pass, err)
		}
	}
	return nil
}

// SubstituteTex applies the find/replace pairs to the generated LaTeX file
// in order. A tex file the generator did not produce is an error.
func SubstituteTex(texPath string, subs []types.TexSubstitution) error {
	if len(subs) == 0 {
		return nil
	}
	data, err := os.ReadFile(texPath)
	if err != nil {
		return fmt.Errorf("reading generated latex %s: %w", texPath, err)
	}
	text := string(data)
	for _, s := range subs {
		text = strings.ReplaceAll(text, s.Find, s.Replace)
	}
	if err := os.WriteFile(texPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", texPath, err)
	}
	return nil
}
