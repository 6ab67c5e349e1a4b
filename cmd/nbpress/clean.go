package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all derived artifacts",
	Long: `Clean removes the build directory: notebooks, archives, rendered
trees, and the build log. Deletion errors are surfaced, since a stale
artifact that survives clean can suppress a needed rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := os.RemoveAll(cfg.BuildDir); err != nil {
			return fmt.Errorf("removing %s: %w", cfg.BuildDir, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cfg.BuildDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
