// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbpress/pkg/types"
)

// NativeConverter is the in-process markdown-to-notebook backend. Fenced
// code blocks in the configured language become code cells; everything
// else, including fences in other languages, stays markdown.
type NativeConverter struct {
	cfg types.ConvertConfig
}

// NewNativeConverter creates a converter for the given conversion settings.
func NewNativeConverter(cfg types.ConvertConfig) *NativeConverter {
	return &NativeConverter{cfg: cfg}
}

// Convert parses a markdown document into a notebook. Malformed YAML
// frontmatter is a conversion error, not a fallback: a bad source document
// must fail the build rather than produce a silently degraded notebook.
func (n *NativeConverter) Convert(src []byte) (*types.Notebook, error) {
	fm, body, err := splitFrontmatter(src)
	if err != nil {
		return nil, err
	}

	nb := types.NewNotebook(types.KernelSpec{
		DisplayName: n.cfg.KernelDisplayName,
		Language:    n.cfg.Language,
		Name:        n.cfg.KernelName,
	})
	nb.Metadata.Frontmatter = fm

	var prose []string
	flushProse := func() {
		text := strings.TrimSpace(strings.Join(prose, "\n"))
		prose = prose[:0]
		if text == "" {
			return
		}
		nb.Cells = append(nb.Cells, types.Cell{
			CellType: types.CellMarkdown,
			Source:   sourceLines(text),
		})
	}

	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		length, info, open := fenceOpen(line)
		if !open {
			prose = append(prose, line)
			continue
		}

		// Collect the fenced block up to its closing line. The closing
		// fence must be at least as long as the opening one, so a
		// three-backtick fence shown inside a four-backtick block stays
		// content.
		var block []string
		closing := ""
		closed := false
		for i++; i < len(lines); i++ {
			if fenceClose(lines[i], length) {
				closing = lines[i]
				closed = true
				break
			}
			block = append(block, lines[i])
		}
		if !closed {
			return nil, fmt.Errorf("unterminated code fence opened with %q", line)
		}

		if info != n.cfg.Language {
			// Foreign-language fence: keep it verbatim in the prose.
			prose = append(prose, line)
			prose = append(prose, block...)
			prose = append(prose, closing)
			continue
		}

		flushProse()
		nb.Cells = append(nb.Cells, types.Cell{
			CellType: types.CellCode,
			Source:   sourceLines(strings.Join(block, "\n")),
		})
	}
	flushProse()

	return nb, nil
}

// fenceOpen reports whether line opens a code fence: a run of three or
// more backticks indented at most three spaces, followed by an info
// string without backticks. It returns the fence length and info string.
func fenceOpen(line string) (length int, info string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return 0, "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == '`' {
		n++
	}
	if n < 3 {
		return 0, "", false
	}
	info = strings.TrimSpace(trimmed[n:])
	if strings.Contains(info, "`") {
		return 0, "", false
	}
	return n, info, true
}

// fenceClose reports whether line closes a fence of the given length:
// only backticks, at least as many as the opening run.
func fenceClose(line string, length int) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < length {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '`' {
			return false
		}
	}
	return true
}

// splitFrontmatter separates YAML frontmatter (between leading ---
// delimiters) from the markdown body.
func splitFrontmatter(data []byte) (map[string]any, string, error) {
	const delim = "---"
	text := strings.TrimLeft(string(data), "\n\r")

	if !strings.HasPrefix(text, delim+"\n") {
		return nil, string(data), nil
	}

	rest := text[len(delim)+1:]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, "", fmt.Errorf("frontmatter opened but never closed")
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return nil, "", fmt.Errorf("parsing frontmatter: %w", err)
	}

	body := rest[idx+1+len(delim):]
	return fm, strings.TrimLeft(body, "\n\r"), nil
}

// sourceLines converts text into the nbformat source representation: each
// line keeps its trailing newline except the last.
func sourceLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, l := range lines {
		if i < len(lines)-1 {
			out[i] = l + "\n"
		} else {
			out[i] = l
		}
	}
	return out
}
