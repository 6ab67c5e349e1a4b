package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/nbpress/internal/render"
	"github.com/pdiddy/nbpress/internal/tools"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Render the PDF documentation",
	Long: `Pdf converts any stale sources, runs the documentation generator's
LaTeX builder, rewrites the generated markup, and typesets it twice so
cross-reference numbering resolves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgFile, err := loadConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if _, err := runConvert(cfg, cfgFile, w); err != nil {
			return err
		}
		gen := tools.New(cfg.Render.Generator)
		latex := tools.New(cfg.Render.Latex)
		return render.PDF(gen, latex, cfg.Render, cfg.NotebooksDir(), cfg.LatexDir(), w)
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
}
