// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and document model shared by the
// build stages. See docs/ARCHITECTURE § Configuration.
package types

import (
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ConvertBackend identifies the document-to-notebook converter.
type ConvertBackend string

const (
	// BackendNative is the in-process markdown-to-notebook converter.
	BackendNative ConvertBackend = "native"
	// BackendNotedown pipes sources through an external notedown process.
	BackendNotedown ConvertBackend = "notedown"
)

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// Backend selects the converter: native or notedown.
	Backend ConvertBackend `yaml:"backend"`

	// Language is the fence language that becomes executable code cells
	// (e.g. "python"). Fences in other languages stay prose.
	Language string `yaml:"language"`

	// KernelName is the Jupyter kernelspec name (e.g. "python3").
	KernelName string `yaml:"kernel_name"`

	// KernelDisplayName is the human-readable kernel name.
	KernelDisplayName string `yaml:"kernel_display_name"`

	// NotedownBin is the notedown executable name or path.
	NotedownBin string `yaml:"notedown_bin"`
}

// Validate validates the conversion configuration.
func (c *ConvertConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendNative, BackendNotedown)),
		validation.Field(&c.Language, validation.Required),
		validation.Field(&c.KernelName, validation.Required),
	)
}

// TexSubstitution is one find/replace pair applied to the generated LaTeX
// before typesetting.
type TexSubstitution struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
}

// RenderConfig holds settings for the HTML and PDF rendering stage.
type RenderConfig struct {
	// Generator is the static documentation generator binary (e.g. "sphinx-build").
	Generator string `yaml:"generator"`

	// Latex is the typesetting engine binary (e.g. "xelatex").
	Latex string `yaml:"latex"`

	// TexFile is the name of the generator's LaTeX output inside the latex
	// build directory.
	TexFile string `yaml:"tex_file"`

	// TexSubstitutions are applied to TexFile between generation and
	// typesetting, in order.
	TexSubstitutions []TexSubstitution `yaml:"tex_substitutions"`
}

// Validate validates the rendering configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Generator, validation.Required),
		validation.Field(&c.Latex, validation.Required),
		validation.Field(&c.TexFile, validation.Required),
	)
}

// PackageConfig holds settings for the archive stage.
type PackageConfig struct {
	// ZipName is the zip archive filename (e.g. "notebooks.zip").
	ZipName string `yaml:"zip_name"`

	// TarName is the gzip-compressed tar archive filename (e.g. "notebooks.tar.gz").
	TarName string `yaml:"tar_name"`
}

// Validate validates the archive configuration.
func (c *PackageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ZipName, validation.Required),
		validation.Field(&c.TarName, validation.Required),
	)
}

// ServeConfig holds settings for the preview server and source watcher.
type ServeConfig struct {
	// Port is the preview server port.
	Port int `yaml:"port"`

	// Debounce is the quiet period between a source change and the rebuild
	// it triggers.
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the preview server configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// BookConfig is the top-level build configuration, loaded from book.yaml.
// Its modification time participates in staleness checks: touching the
// config forces every notebook to regenerate.
type BookConfig struct {
	// Title is the book title, used for rendered output metadata.
	Title string `yaml:"title"`

	// SourceDir holds the markdown source documents.
	SourceDir string `yaml:"source_dir"`

	// BuildDir holds all derived artifacts. Removed wholesale by clean.
	BuildDir string `yaml:"build_dir"`

	Convert ConvertConfig `yaml:"convert"`
	Render  RenderConfig  `yaml:"render"`
	Package PackageConfig `yaml:"package"`
	Serve   ServeConfig   `yaml:"serve"`
}

// Validate validates the whole configuration tree.
func (c *BookConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.SourceDir, validation.Required),
		validation.Field(&c.BuildDir, validation.Required),
	); err != nil {
		return err
	}
	if err := c.Convert.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	if err := c.Package.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

// NotebooksDir returns the directory for converted notebooks.
func (c *BookConfig) NotebooksDir() string {
	return filepath.Join(c.BuildDir, "notebooks")
}

// HTMLDir returns the directory for the rendered HTML tree.
func (c *BookConfig) HTMLDir() string {
	return filepath.Join(c.BuildDir, "html")
}

// LatexDir returns the directory for the generator's LaTeX output.
func (c *BookConfig) LatexDir() string {
	return filepath.Join(c.BuildDir, "latex")
}

// PackageDir returns the directory for notebook archives.
func (c *BookConfig) PackageDir() string {
	return filepath.Join(c.BuildDir, "pkg")
}

// ManifestPath returns the path of the build-log database.
func (c *BookConfig) ManifestPath() string {
	return filepath.Join(c.BuildDir, "manifest.db")
}

// NewDefaultConfig returns a BookConfig with working defaults for a
// python-kernel tutorial book.
func NewDefaultConfig() *BookConfig {
	return &BookConfig{
		Title:     "Tutorial",
		SourceDir: "book",
		BuildDir:  "_build",
		Convert: ConvertConfig{
			Backend:           BackendNative,
			Language:          "python",
			KernelName:        "python3",
			KernelDisplayName: "Python 3",
			NotedownBin:       "notedown",
		},
		Render: RenderConfig{
			Generator: "sphinx-build",
			Latex:     "xelatex",
			TexFile:   "book.tex",
			TexSubstitutions: []TexSubstitution{
				{Find: `\date{}`, Replace: `\date{\today}`},
			},
		},
		Package: PackageConfig{
			ZipName: "notebooks.zip",
			TarName: "notebooks.tar.gz",
		},
		Serve: ServeConfig{
			Port:     8000,
			Debounce: 500 * time.Millisecond,
		},
	}
}
