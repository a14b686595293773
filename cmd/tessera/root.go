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
	Use:   "tessera",
	Short: "Tessera - component/layout compatibility validator",
	Long: `Tessera decides whether dashboard content components will render
acceptably inside their layout spaces, working purely from structural
signals (item counts, text length, nesting depth) supplied via props.

It provides:
  - A constraint rule table per (component type, layout space) pair
  - Violation classification: errors (will break) vs warnings (degraded)
  - Mechanically derived fix suggestions (compact variant, item cap, truncation)
  - An HTTP API for the dashboard, plus session/message forwarding routes
  - Optional validation-report history with scheduled retention pruning`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
