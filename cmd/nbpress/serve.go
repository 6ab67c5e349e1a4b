package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/nbpress/internal/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rendered HTML tree for local preview",
	Long: `Serve builds the HTML target and hosts the result on a local port.
With --watch, source changes trigger a debounced rebuild while the server
keeps running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgFile, err := loadConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if err := runHTML(w); err != nil {
			return err
		}

		logger := newLogger()
		addr := fmt.Sprintf(":%d", cfg.Serve.Port)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return serve.Run(ctx, addr, cfg.HTMLDir(), logger)
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return serve.Run(ctx, addr, cfg.HTMLDir(), logger)
		})
		g.Go(func() error {
			return serve.Watch(ctx, cfg.SourceDir, configWatchPaths(cfgFile),
				cfg.Serve.Debounce, logger, func() error { return runHTML(w) })
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().Bool("watch", false, "rebuild on source changes while serving")
	serveCmd.Flags().Int("port", 8000, "preview server port")
	viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

// configWatchPaths lists paths outside the source tree whose changes must
// also trigger rebuilds.
func configWatchPaths(cfgFile string) []string {
	if cfgFile == "" {
		return nil
	}
	return []string{cfgFile}
}

// newLogger builds the slog logger for the long-running commands. Level is
// controlled by NBPRESS_LOG_LEVEL (debug, info, warn, error).
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if v := os.Getenv("NBPRESS_LOG_LEVEL"); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			level = l
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
