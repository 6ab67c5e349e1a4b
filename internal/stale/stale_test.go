// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stale

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// write creates a file with the given modification time.
func write(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestStale(t *testing.T) {
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string) (output string, inputs []string)
		want    bool
		wantErr bool
	}{
		{
			name: "missing output is stale",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "a.md")
				write(t, src, base)
				return filepath.Join(dir, "a.ipynb"), []string{src}
			},
			want: true,
		},
		{
			name: "output newer than all inputs is fresh",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "a.md")
				cfg := filepath.Join(dir, "book.yaml")
				out := filepath.Join(dir, "a.ipynb")
				write(t, src, base)
				write(t, cfg, base)
				write(t, out, base.Add(time.Hour))
				return out, []string{src, cfg}
			},
			want: false,
		},
		{
			name: "output older than one input is stale",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "a.md")
				cfg := filepath.Join(dir, "book.yaml")
				out := filepath.Join(dir, "a.ipynb")
				write(t, src, base)
				write(t, out, base.Add(time.Hour))
				write(t, cfg, base.Add(2*time.Hour))
				return out, []string{src, cfg}
			},
			want: true,
		},
		{
			name: "equal timestamps are fresh",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "a.md")
				out := filepath.Join(dir, "a.ipynb")
				write(t, src, base)
				write(t, out, base)
				return out, []string{src}
			},
			want: false,
		},
		{
			name: "missing input is an error",
			setup: func(t *testing.T, dir string) (string, []string) {
				out := filepath.Join(dir, "a.ipynb")
				write(t, out, base)
				return out, []string{filepath.Join(dir, "gone.md")}
			},
			wantErr: true,
		},
		{
			name: "missing input with missing output is still an error",
			setup: func(t *testing.T, dir string) (string, []string) {
				return filepath.Join(dir, "a.ipynb"), []string{filepath.Join(dir, "gone.md")}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			output, inputs := tt.setup(t, dir)

			got, err := Stale(output, inputs...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Stale = %v, want %v", got, tt.want)
			}
		})
	}
}
