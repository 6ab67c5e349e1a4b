package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbpress/internal/convert"
	"github.com/pdiddy/nbpress/internal/manifest"
	"github.com/pdiddy/nbpress/internal/stale"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report recorded builds and current artifact freshness",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgFile, err := loadConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if _, err := os.Stat(cfg.ManifestPath()); err != nil {
			fmt.Fprintln(w, "no recorded builds")
		} else {
			store, err := manifest.Open(cfg.ManifestPath())
			if err != nil {
				return err
			}
			defer store.Close()

			targets, err := store.Targets()
			if err != nil {
				return err
			}
			for _, target := range targets {
				run, err := store.LastRun(target)
				if err != nil {
					return err
				}
				if run == nil {
					continue
				}
				fmt.Fprintf(w, "%-8s %s  %s  (%d converted, %d skipped, %d failed)\n",
					target, run.Status, run.StartedAt.Format(time.RFC3339),
					run.Converted, run.Skipped, run.Failed)
			}
		}

		// Freshness of the notebook outputs against sources and config.
		sources, err := convert.ListSources(cfg.SourceDir)
		if err != nil {
			return err
		}
		staleCount := 0
		for _, src := range sources {
			inputs := []string{src}
			if cfgFile != "" {
				inputs = append(inputs, cfgFile)
			}
			rebuild, err := stale.Stale(convert.OutputPath(src, cfg.NotebooksDir()), inputs...)
			if err != nil || rebuild {
				staleCount++
			}
		}
		fmt.Fprintf(w, "sources: %d total, %d stale\n", len(sources), staleCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
