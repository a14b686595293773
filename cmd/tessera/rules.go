package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"tessera-hq/tessera/pkg/compat"
	"tessera-hq/tessera/pkg/rules"
)

var rulesFlags struct {
	rulesPath string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective constraint rule table",
	Long: `Print every registered (component, space) rule with its soft and hard
limits, sorted by component then space.

Examples:
  # Print the built-in defaults
  tessera rules

  # Print a custom rule table
  tessera rules --rules rules.yaml`,
	RunE: printRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&rulesFlags.rulesPath, "rules", "", "rule table file (built-in defaults if omitted)")
}

func printRules(cmd *cobra.Command, args []string) error {
	registry := compat.DefaultRegistry()
	if rulesFlags.rulesPath != "" {
		loaded, err := rules.Load(rulesFlags.rulesPath)
		if err != nil {
			return fmt.Errorf("failed to load rule table: %w", err)
		}
		registry = loaded
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tSPACE\tQUANTITY\tSOFT\tHARD")
	for _, pair := range registry.Pairs() {
		for _, limit := range pair.Rules.Limits {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				pair.Component, pair.Space, limit.Quantity, limit.Soft, limit.Hard)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d rule sets\n", registry.Len())
	return nil
}
