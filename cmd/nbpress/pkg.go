package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbpress/internal/archive"
	"github.com/pdiddy/nbpress/internal/convert"
	"github.com/pdiddy/nbpress/internal/manifest"
	"github.com/pdiddy/nbpress/internal/stale"
	"github.com/pdiddy/nbpress/pkg/types"
)

var pkgCmd = &cobra.Command{
	Use:   "pkg",
	Short: "Package the notebooks into zip and tar.gz archives",
	Long: `Pkg converts any stale sources, then bundles all notebooks into a zip
archive and a gzip-compressed tar archive. An archive is rebuilt only when
it is missing or older than any notebook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgFile, err := loadConfig()
		if err != nil {
			return err
		}
		return runPkg(cfg, cfgFile, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(pkgCmd)
}

// runPkg brings the notebooks up to date and rebuilds stale archives.
func runPkg(cfg *types.BookConfig, cfgFile string, w io.Writer) error {
	notebooks, err := runConvert(cfg, cfgFile, w)
	if err != nil {
		return err
	}

	store, err := manifest.Open(cfg.ManifestPath())
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.BeginRun("pkg")
	if err != nil {
		return err
	}

	archives := []struct {
		path  string
		write func([]string, string) error
	}{
		{filepath.Join(cfg.PackageDir(), cfg.Package.ZipName), archive.Zip},
		{filepath.Join(cfg.PackageDir(), cfg.Package.TarName), archive.TarGz},
	}

	for _, a := range archives {
		base := filepath.Base(a.path)
		start := time.Now()

		rebuild, err := stale.Stale(a.path, notebooks...)
		if err == nil && rebuild {
			err = a.write(notebooks, a.path)
		}

		action := convert.ActionSkipped
		switch {
		case err != nil:
			action = convert.ActionFailed
		case rebuild:
			action = convert.ActionConverted
		}
		if recErr := store.RecordArtifact(run, cfg.NotebooksDir(), a.path, string(action), time.Since(start)); recErr != nil {
			fmt.Fprintf(w, "warning: build log write failed: %v\n", recErr)
		}

		if err != nil {
			if finErr := store.FinishRun(run, manifest.StatusFailed); finErr != nil {
				fmt.Fprintf(w, "warning: build log write failed: %v\n", finErr)
			}
			return fmt.Errorf("packaging %s: %w", base, err)
		}
		if rebuild {
			fmt.Fprintf(w, "packaged: %s (%d notebooks)\n", base, len(notebooks))
		} else {
			fmt.Fprintf(w, "skipped: %s (up to date)\n", base)
		}
	}

	if err := store.FinishRun(run, manifest.StatusSucceeded); err != nil {
		fmt.Fprintf(w, "warning: build log write failed: %v\n", err)
	}
	return nil
}
