package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbpress/internal/convert"
	"github.com/pdiddy/nbpress/internal/manifest"
	"github.com/pdiddy/nbpress/internal/tools"
	"github.com/pdiddy/nbpress/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert markdown sources into Jupyter notebooks",
	Long: `Convert transforms every markdown document under the source directory
into a notebook, skipping outputs that are already newer than both their
source and the build configuration. Supports the native and notedown
backends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgFile, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = runConvert(cfg, cfgFile, cmd.OutOrStdout())
		return err
	},
}

func init() {
	convertCmd.Flags().String("backend", "native", "conversion backend: native or notedown")
	viper.BindPFlag("convert.backend", convertCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(convertCmd)
}

// newConverter builds the configured conversion backend.
func newConverter(cfg *types.BookConfig) (convert.Converter, error) {
	switch cfg.Convert.Backend {
	case types.BackendNative:
		return convert.NewNativeConverter(cfg.Convert), nil
	case types.BackendNotedown:
		return convert.NewNotedownConverter(tools.New(cfg.Convert.NotedownBin), cfg.Convert)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q", cfg.Convert.Backend)
	}
}

// runConvert converts every stale source via one batch pass, recording the
// run in the build log through the batch observer. It returns the notebook
// paths in source order for the downstream packaging and rendering targets.
func runConvert(cfg *types.BookConfig, cfgFile string, w io.Writer) ([]string, error) {
	sources, err := convert.ListSources(cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no markdown sources under %s", cfg.SourceDir)
	}

	conv, err := newConverter(cfg)
	if err != nil {
		return nil, err
	}

	store, err := manifest.Open(cfg.ManifestPath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	run, err := store.BeginRun("convert")
	if err != nil {
		return nil, err
	}

	record := func(source, output string, action convert.Action, elapsed time.Duration) {
		if recErr := store.RecordArtifact(run, source, output, string(action), elapsed); recErr != nil {
			fmt.Fprintf(w, "warning: build log write failed: %v\n", recErr)
		}
	}

	_, batchErr := convert.ConvertBatch(conv, sources, cfgFile, cfg.NotebooksDir(), w, record)

	status := manifest.StatusSucceeded
	if batchErr != nil {
		status = manifest.StatusFailed
	}
	if err := store.FinishRun(run, status); err != nil {
		fmt.Fprintf(w, "warning: build log write failed: %v\n", err)
	}
	if batchErr != nil {
		return nil, batchErr
	}

	notebooks := make([]string, len(sources))
	for i, src := range sources {
		notebooks[i] = convert.OutputPath(src, cfg.NotebooksDir())
	}
	return notebooks, nil
}
