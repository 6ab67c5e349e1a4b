// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotebookEncode(t *testing.T) {
	nb := NewNotebook(KernelSpec{DisplayName: "Python 3", Language: "python", Name: "python3"})
	nb.Cells = append(nb.Cells,
		Cell{CellType: CellMarkdown, Source: []string{"# Title\n", "Prose."}},
		Cell{CellType: CellCode, Source: []string{"x = 1"}},
	)

	data, err := nb.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.EqualValues(t, 4, decoded["nbformat"])

	cells := decoded["cells"].([]any)
	require.Len(t, cells, 2)

	md := cells[0].(map[string]any)
	assert.Equal(t, "markdown", md["cell_type"])
	_, hasOutputs := md["outputs"]
	assert.False(t, hasOutputs, "markdown cells carry no outputs")

	code := cells[1].(map[string]any)
	assert.Equal(t, "code", code["cell_type"])
	assert.Equal(t, []any{}, code["outputs"])
	assert.Nil(t, code["execution_count"])
}

func TestNotebookEncodeDeterministic(t *testing.T) {
	build := func() []byte {
		nb := NewNotebook(KernelSpec{Name: "python3", Language: "python"})
		nb.Cells = append(nb.Cells, Cell{
			CellType: CellCode,
			Metadata: map[string]any{"tags": []string{"setup"}},
			Source:   []string{"import numpy\n", "numpy.zeros(3)"},
		})
		data, err := nb.Encode()
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, build(), build(), "identical notebooks must encode to identical bytes")
}

func TestCellUnmarshalStringSource(t *testing.T) {
	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`{"cell_type": "code", "source": "x = 1\ny = 2"}`), &c))
	assert.Equal(t, []string{"x = 1\ny = 2"}, c.Source)

	var c2 Cell
	require.NoError(t, json.Unmarshal([]byte(`{"cell_type": "markdown", "source": ["a\n", "b"]}`), &c2))
	assert.Equal(t, []string{"a\n", "b"}, c2.Source)
}
