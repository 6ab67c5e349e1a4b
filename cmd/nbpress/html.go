package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbpress/internal/render"
	"github.com/pdiddy/nbpress/internal/tools"
)

var htmlCmd = &cobra.Command{
	Use:   "html",
	Short: "Render the HTML documentation tree",
	Long: `Html converts any stale sources and runs the documentation generator
over the notebooks to produce the HTML tree. This is the default target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHTML(cmd.OutOrStdout())
	},
}

// allCmd is the explicit spelling of the default target.
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Build the default target (html)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHTML(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(htmlCmd)
	rootCmd.AddCommand(allCmd)
}

// runHTML converts stale sources and renders the HTML tree. Incremental
// rebuilding inside the HTML tree itself is the generator's job.
func runHTML(w io.Writer) error {
	cfg, cfgFile, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := runConvert(cfg, cfgFile, w); err != nil {
		return err
	}
	gen := tools.New(cfg.Render.Generator)
	return render.HTML(gen, cfg.NotebooksDir(), cfg.HTMLDir(), w)
}
