// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// Cell types in the nbformat 4 document model.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
)

// Cell is one notebook cell. Source follows the nbformat convention of a
// list of lines, each carrying its trailing newline except the last.
type Cell struct {
	CellType string         `json:"cell_type"`
	Metadata map[string]any `json:"metadata"`
	Source   []string       `json:"source"`
}

// MarshalJSON emits the cell with the fields nbformat 4 requires per cell
// type: code cells carry an empty outputs list and a null execution count.
func (c Cell) MarshalJSON() ([]byte, error) {
	meta := c.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	src := c.Source
	if src == nil {
		src = []string{}
	}
	m := map[string]any{
		"cell_type": c.CellType,
		"metadata":  meta,
		"source":    src,
	}
	if c.CellType == CellCode {
		m["execution_count"] = nil
		m["outputs"] = []any{}
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts both source representations the nbformat ecosystem
// produces: a list of lines or a single string.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw struct {
		CellType string          `json:"cell_type"`
		Metadata map[string]any  `json:"metadata"`
		Source   json.RawMessage `json:"source"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.CellType = raw.CellType
	c.Metadata = raw.Metadata
	c.Source = nil
	if len(raw.Source) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.Source, &c.Source); err == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Source, &s); err != nil {
		return err
	}
	c.Source = []string{s}
	return nil
}

// KernelSpec identifies the Jupyter kernel a notebook targets.
type KernelSpec struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Name        string `json:"name"`
}

// NotebookMetadata is the notebook-level metadata block.
type NotebookMetadata struct {
	KernelSpec   KernelSpec     `json:"kernelspec"`
	LanguageInfo map[string]any `json:"language_info"`

	// Frontmatter carries the source document's YAML frontmatter, when present.
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
}

// Notebook is an nbformat 4 document.
type Notebook struct {
	Cells         []Cell           `json:"cells"`
	Metadata      NotebookMetadata `json:"metadata"`
	NBFormat      int              `json:"nbformat"`
	NBFormatMinor int              `json:"nbformat_minor"`
}

// NewNotebook returns an empty nbformat 4 notebook for the given kernel.
func NewNotebook(kernel KernelSpec) *Notebook {
	return &Notebook{
		Cells: []Cell{},
		Metadata: NotebookMetadata{
			KernelSpec:   kernel,
			LanguageInfo: map[string]any{"name": kernel.Language},
		},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}

// Encode serializes the notebook as indented JSON. Key order is fixed by
// the encoder, so identical notebooks encode to identical bytes.
func (n *Notebook) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(n, "", " ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
