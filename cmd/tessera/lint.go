package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"tessera-hq/tessera/pkg/compat"
)

var lintFlags struct {
	file      string
	rulesPath string
}

// layoutFile is the YAML shape of a dashboard layout: a list of component
// placements, each carrying the props the renderer would receive.
type layoutFile struct {
	Placements []placement `yaml:"placements"`
}

type placement struct {
	Name      string         `yaml:"name"`
	Component string         `yaml:"component"`
	Space     string         `yaml:"space"`
	Props     map[string]any `yaml:"props"`
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate every placement in a dashboard layout file",
	Long: `Validate all component placements declared in a dashboard layout YAML
file and report every violation found.

The layout file lists placements with their component type, layout space,
and props:

  placements:
    - name: action-items
      component: checklist
      space: sixth-width
      props:
        items: ["review", "approve", "file"]

The exit code is 0 when every placement is valid (warnings included) and
1 when any placement has errors.

Examples:
  tessera lint --file dashboard.yaml
  tessera lint --file dashboard.yaml --rules rules.yaml`,
	RunE: lintLayout,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "dashboard layout YAML file (required)")
	lintCmd.Flags().StringVar(&lintFlags.rulesPath, "rules", "", "rule table file (built-in defaults if omitted)")

	_ = lintCmd.MarkFlagRequired("file")
}

func lintLayout(cmd *cobra.Command, args []string) error {
	validator, err := loadValidator(lintFlags.rulesPath)
	if err != nil {
		return fmt.Errorf("failed to load rule table: %w", err)
	}

	data, err := os.ReadFile(lintFlags.file)
	if err != nil {
		return fmt.Errorf("failed to read layout file: %w", err)
	}

	var layout layoutFile
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return fmt.Errorf("failed to parse layout file: %w", err)
	}
	if len(layout.Placements) == 0 {
		fmt.Println("no placements found")
		return nil
	}

	var errorCount, warningCount int
	for i, p := range layout.Placements {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("placement %d", i+1)
		}

		result := validator.Validate(
			compat.ComponentType(p.Component),
			compat.SpaceType(p.Space),
			p.Props,
		)
		errorCount += len(result.Errors)
		warningCount += len(result.Warnings)

		if result.Valid && len(result.Warnings) == 0 {
			continue
		}
		fmt.Printf("%s (%s in %s):\n", name, p.Component, p.Space)
		for _, msg := range result.Errors {
			fmt.Printf("  error: %s\n", msg)
		}
		for _, msg := range result.Warnings {
			fmt.Printf("  warning: %s\n", msg)
		}
	}

	fmt.Printf("\n%d placements, %d errors, %d warnings\n",
		len(layout.Placements), errorCount, warningCount)

	if errorCount > 0 {
		if cmd != nil {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
		}
		return fmt.Errorf("layout has errors")
	}
	return nil
}
