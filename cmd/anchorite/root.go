package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "anchorite",
	Short: "Anchorite - focus-session enforcement daemon",
	Long: `Anchorite is a focus-session enforcement daemon that decides, for every
URL an enforcement point asks about, whether it serves the current mission.

It provides:
  - Tiered rule evaluation with a learned classifier fallback
  - Focus sessions that cannot be ended without a split secret
  - A supervised enforcement proxy with watchdog restarts
  - Decision persistence and a feedback loop for the classifier
  - A localhost control API and Prometheus metrics`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
