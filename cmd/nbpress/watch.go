package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbpress/internal/serve"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the HTML tree whenever a source changes",
	Long: `Watch observes the source directory and the build configuration and
reruns the html target after each change, debounced. Build failures are
logged and watching continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgFile, err := loadConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if err := runHTML(w); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve.Watch(ctx, cfg.SourceDir, configWatchPaths(cfgFile),
			cfg.Serve.Debounce, newLogger(), func() error { return runHTML(w) })
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
