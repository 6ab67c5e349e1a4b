// Package main is the entry point for the nbpress CLI, the build
// orchestrator for markdown tutorial books: it converts sources to
// notebooks, packages them, and drives the HTML/PDF renderers.
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbpress/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Running it with no subcommand builds the
// default target: the HTML tree.
var rootCmd = &cobra.Command{
	Use:   "nbpress",
	Short: "Build pipeline for markdown tutorial books",
	Long: `nbpress keeps the derived artifacts of a markdown tutorial book up to
date with their sources: it converts markdown documents into Jupyter
notebooks when they are stale, bundles the notebooks into zip and tar.gz
packages, and drives the documentation generator to render HTML and PDF.

Each build target is a subcommand: convert, pkg, html, pdf, clean. The
default target is html. serve and watch support local preview with
rebuild-on-change; status reports the last recorded builds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; a malformed one is not.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHTML(cmd.OutOrStdout())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./book.yaml or ~/.config/nbpress/book.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("book")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbpress"))
		}
	}

	viper.SetEnvPrefix("NBPRESS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the build configuration and the path of the config
// file that participates in staleness checks (empty when built-in defaults
// are in effect). The file is re-read on every call: watch-mode rebuilds
// load their configuration from disk, not from the values cached at
// startup.
func loadConfig() (*types.BookConfig, string, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := types.NewDefaultConfig()
	err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return nil, "", fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, viper.ConfigFileUsed(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
