// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/nbpress/internal/tools"
	"github.com/pdiddy/nbpress/pkg/types"
)

// NotedownConverter converts markdown by piping it through an external
// notedown process. It depends on a tools.Runner injected at construction
// time.
type NotedownConverter struct {
	tool tools.Runner
	cfg  types.ConvertConfig
}

// NewNotedownConverter creates a converter backed by the notedown binary
// from cfg. It verifies the binary is invocable before returning.
func NewNotedownConverter(tool tools.Runner, cfg types.ConvertConfig) (*NotedownConverter, error) {
	if !tool.Available() {
		return nil, fmt.Errorf("notedown binary %s not found on PATH", tool.Name())
	}
	return &NotedownConverter{tool: tool, cfg: cfg}, nil
}

// Convert pipes src through notedown and parses the notebook it emits.
// The kernel metadata is normalised to the configured kernel so the output
// does not depend on the notedown host environment.
func (n *NotedownConverter) Convert(src []byte) (*types.Notebook, error) {
	var out, errBuf bytes.Buffer
	err := n.tool.Run("", bytes.NewReader(src), &out, &errBuf,
		"--from", "markdown", "--to", "notebook")
	if err != nil {
		return nil, fmt.Errorf("notedown: %w (stderr: %s)", err, errBuf.String())
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("notedown produced empty output")
	}

	var nb types.Notebook
	if err := json.Unmarshal(out.Bytes(), &nb); err != nil {
		return nil, fmt.Errorf("parsing notedown output: %w", err)
	}

	nb.NBFormat = 4
	if nb.NBFormatMinor == 0 {
		nb.NBFormatMinor = 5
	}
	nb.Metadata.KernelSpec = types.KernelSpec{
		DisplayName: n.cfg.KernelDisplayName,
		Language:    n.cfg.Language,
		Name:        n.cfg.KernelName,
	}
	nb.Metadata.LanguageInfo = map[string]any{"name": n.cfg.Language}

	return &nb, nil
}
