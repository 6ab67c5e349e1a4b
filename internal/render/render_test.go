// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/nbpress/pkg/types"
)

// call records one tool invocation.
type call struct {
	dir  string
	args []string
}

// fakeRunner implements tools.Runner and records its invocations.
type fakeRunner struct {
	name      string
	available bool
	err       error
	onRun     func(c call) error
	calls     []call
}

func (f *fakeRunner) Name() string    { return f.name }
func (f *fakeRunner) Available() bool { return f.available }

func (f *fakeRunner) Run(dir string, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	c := call{dir: dir, args: args}
	f.calls = append(f.calls, c)
	if f.err != nil {
		return f.err
	}
	if f.onRun != nil {
		return f.onRun(c)
	}
	return nil
}

func renderConfig() types.RenderConfig {
	return types.RenderConfig{
		Generator: "sphinx-build",
		Latex:     "xelatex",
		TexFile:   "book.tex",
		TexSubstitutions: []types.TexSubstitution{
			{Find: `\date{}`, Replace: `\date{\today}`},
		},
	}
}

func TestHTML(t *testing.T) {
	t.Run("invokes the generator's html builder", func(t *testing.T) {
		gen := &fakeRunner{name: "sphinx-build", available: true}
		var out bytes.Buffer
		if err := HTML(gen, "nb", "html", &out); err != nil {
			t.Fatal(err)
		}
		if len(gen.calls) != 1 {
			t.Fatalf("generator called %d times, want 1", len(gen.calls))
		}
		want := []string{"-b", "html", "nb", "html"}
		if strings.Join(gen.calls[0].args, " ") != strings.Join(want, " ") {
			t.Errorf("args = %v, want %v", gen.calls[0].args, want)
		}
	})

	t.Run("missing generator is an error", func(t *testing.T) {
		gen := &fakeRunner{name: "sphinx-build"}
		if err := HTML(gen, "nb", "html", io.Discard); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("generator failure propagates", func(t *testing.T) {
		gen := &fakeRunner{name: "sphinx-build", available: true, err: errors.New("exit status 2")}
		if err := HTML(gen, "nb", "html", io.Discard); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestPDF(t *testing.T) {
	latexDir := t.TempDir()
	cfg := renderConfig()

	// The generator "produces" the tex file when its latex builder runs.
	gen := &fakeRunner{name: "sphinx-build", available: true}
	gen.onRun = func(c call) error {
		return os.WriteFile(filepath.Join(latexDir, cfg.TexFile),
			[]byte(`\title{Book}`+"\n"+`\date{}`+"\n"), 0o644)
	}
	latex := &fakeRunner{name: "xelatex", available: true}

	var out bytes.Buffer
	if err := PDF(gen, latex, cfg, "nb", latexDir, &out); err != nil {
		t.Fatal(err)
	}

	if len(gen.calls) != 1 {
		t.Fatalf("generator called %d times, want 1", len(gen.calls))
	}
	if gen.calls[0].args[1] != "latex" {
		t.Errorf("generator builder = %q, want latex", gen.calls[0].args[1])
	}

	// The typesetting engine runs exactly twice, in the latex directory.
	if len(latex.calls) != 2 {
		t.Fatalf("latex called %d times, want 2", len(latex.calls))
	}
	for i, c := range latex.calls {
		if c.dir != latexDir {
			t.Errorf("pass %d ran in %q, want %q", i+1, c.dir, latexDir)
		}
		if c.args[len(c.args)-1] != cfg.TexFile {
			t.Errorf("pass %d args = %v", i+1, c.args)
		}
	}

	// The substitution ran before typesetting.
	data, err := os.ReadFile(filepath.Join(latexDir, cfg.TexFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `\date{\today}`) {
		t.Errorf("substitution not applied: %q", data)
	}
}

func TestPDF_FirstPassFailureStopsRun(t *testing.T) {
	latexDir := t.TempDir()
	cfg := renderConfig()

	gen := &fakeRunner{name: "sphinx-build", available: true}
	gen.onRun = func(c call) error {
		return os.WriteFile(filepath.Join(latexDir, cfg.TexFile), []byte(`\date{}`), 0o644)
	}
	latex := &fakeRunner{name: "xelatex", available: true, err: errors.New("exit status 1")}

	if err := PDF(gen, latex, cfg, "nb", latexDir, io.Discard); err == nil {
		t.Fatal("expected error")
	}
	if len(latex.calls) != 1 {
		t.Errorf("latex called %d times after first-pass failure, want 1", len(latex.calls))
	}
}

func TestSubstituteTex(t *testing.T) {
	t.Run("applies pairs in order", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "book.tex")
		if err := os.WriteFile(path, []byte("AAA BBB"), 0o644); err != nil {
			t.Fatal(err)
		}
		subs := []types.TexSubstitution{
			{Find: "AAA", Replace: "BBB"},
			{Find: "BBB", Replace: "CCC"},
		}
		if err := SubstituteTex(path, subs); err != nil {
			t.Fatal(err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "CCC CCC" {
			t.Errorf("got %q, want %q", data, "CCC CCC")
		}
	})

	t.Run("missing tex file is an error", func(t *testing.T) {
		err := SubstituteTex(filepath.Join(t.TempDir(), "gone.tex"),
			[]types.TexSubstitution{{Find: "a", Replace: "b"}})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
