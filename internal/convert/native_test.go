// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"
	"testing"

	"github.com/pdiddy/nbpress/pkg/types"
)

func pythonConfig() types.ConvertConfig {
	return types.ConvertConfig{
		Backend:           types.BackendNative,
		Language:          "python",
		KernelName:        "python3",
		KernelDisplayName: "Python 3",
	}
}

func TestNativeConverter(t *testing.T) {
	conv := NewNativeConverter(pythonConfig())

	t.Run("interleaves markdown and code cells", func(t *testing.T) {
		src := strings.Join([]string{
			"# Linear Regression",
			"",
			"We start by importing the toolkit.",
			"",
			"```python",
			"import numpy as np",
			"w = np.zeros(4)",
			"```",
			"",
			"Now the loss.",
			"",
			"```python",
			"loss = ((y - x @ w) ** 2).mean()",
			"```",
		}, "\n")

		nb, err := conv.Convert([]byte(src))
		if err != nil {
			t.Fatal(err)
		}

		wantTypes := []string{
			types.CellMarkdown, types.CellCode, types.CellMarkdown, types.CellCode,
		}
		if len(nb.Cells) != len(wantTypes) {
			t.Fatalf("got %d cells, want %d", len(nb.Cells), len(wantTypes))
		}
		for i, want := range wantTypes {
			if nb.Cells[i].CellType != want {
				t.Errorf("cell %d type = %q, want %q", i, nb.Cells[i].CellType, want)
			}
		}
		if got := strings.Join(nb.Cells[1].Source, ""); got != "import numpy as np\nw = np.zeros(4)" {
			t.Errorf("code cell source = %q", got)
		}
		if !strings.Contains(strings.Join(nb.Cells[0].Source, ""), "# Linear Regression") {
			t.Error("first markdown cell should contain the heading")
		}
	})

	t.Run("foreign-language fences stay prose", func(t *testing.T) {
		src := "Install it:\n\n```bash\npip install mxnet\n```\n"
		nb, err := conv.Convert([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		if len(nb.Cells) != 1 {
			t.Fatalf("got %d cells, want 1", len(nb.Cells))
		}
		if nb.Cells[0].CellType != types.CellMarkdown {
			t.Errorf("cell type = %q, want markdown", nb.Cells[0].CellType)
		}
		joined := strings.Join(nb.Cells[0].Source, "")
		if !strings.Contains(joined, "```bash") || !strings.Contains(joined, "pip install mxnet") {
			t.Errorf("bash fence should survive verbatim, got %q", joined)
		}
	})

	t.Run("longer fence can show a shorter one", func(t *testing.T) {
		src := strings.Join([]string{
			"Fences look like this:",
			"",
			"````markdown",
			"```python",
			"x = 1",
			"```",
			"````",
			"",
			"```python",
			"y = 2",
			"```",
		}, "\n")
		nb, err := conv.Convert([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		if len(nb.Cells) != 2 {
			t.Fatalf("got %d cells, want 2: %+v", len(nb.Cells), nb.Cells)
		}
		joined := strings.Join(nb.Cells[0].Source, "")
		if !strings.Contains(joined, "````markdown") || !strings.Contains(joined, "```python\nx = 1\n```\n````") {
			t.Errorf("four-backtick block should stay prose verbatim, got %q", joined)
		}
		if got := strings.Join(nb.Cells[1].Source, ""); got != "y = 2" {
			t.Errorf("code cell source = %q, want %q", got, "y = 2")
		}
	})

	t.Run("indented backticks are not fences", func(t *testing.T) {
		src := "A literal block:\n\n    ```python\n    x = 1\n    ```\n\nDone.\n"
		nb, err := conv.Convert([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		if len(nb.Cells) != 1 {
			t.Fatalf("got %d cells, want 1: %+v", len(nb.Cells), nb.Cells)
		}
		if nb.Cells[0].CellType != types.CellMarkdown {
			t.Errorf("cell type = %q, want markdown", nb.Cells[0].CellType)
		}
	})

	t.Run("frontmatter lands in notebook metadata", func(t *testing.T) {
		src := "---\ntitle: Perceptrons\nchapter: 4\n---\n\nBody text.\n"
		nb, err := conv.Convert([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		if nb.Metadata.Frontmatter["title"] != "Perceptrons" {
			t.Errorf("frontmatter title = %v", nb.Metadata.Frontmatter["title"])
		}
		if len(nb.Cells) != 1 || !strings.Contains(nb.Cells[0].Source[0], "Body text.") {
			t.Errorf("body cell wrong: %+v", nb.Cells)
		}
	})

	t.Run("malformed frontmatter is a conversion error", func(t *testing.T) {
		src := "---\ntitle: [unclosed\n---\n\nBody.\n"
		if _, err := conv.Convert([]byte(src)); err == nil {
			t.Fatal("expected error for malformed frontmatter")
		}
	})

	t.Run("unterminated fence is a conversion error", func(t *testing.T) {
		src := "Text.\n\n```python\nx = 1\n"
		if _, err := conv.Convert([]byte(src)); err == nil {
			t.Fatal("expected error for unterminated fence")
		}
	})

	t.Run("kernel metadata follows configuration", func(t *testing.T) {
		nb, err := conv.Convert([]byte("Hello.\n"))
		if err != nil {
			t.Fatal(err)
		}
		if nb.Metadata.KernelSpec.Name != "python3" {
			t.Errorf("kernel name = %q", nb.Metadata.KernelSpec.Name)
		}
		if nb.NBFormat != 4 {
			t.Errorf("nbformat = %d, want 4", nb.NBFormat)
		}
	})
}
