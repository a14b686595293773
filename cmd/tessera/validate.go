package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"tessera-hq/tessera/pkg/compat"
	"tessera-hq/tessera/pkg/rules"
)

var validateFlags struct {
	component string
	space     string
	propsFile string
	rulesPath string
	format    string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a single component placement",
	Long: `Validate one component placement against its layout space without
starting the server.

Props are read as a JSON object from the --props file, or from stdin
when the file is "-". The exit code is 0 when the placement is valid
(warnings included) and 1 when it has errors.

Examples:
  # Validate a checklist in a sixth-width space
  tessera validate --component checklist --space sixth-width --props props.json

  # Pipe props from another tool
  echo '{"items": ["a", "b", "c"]}' | tessera validate --component checklist --space sixth-width --props -

  # JSON output against a custom rule table
  tessera validate --component narrative-paragraph --space quarter-width \
    --props props.json --rules rules.yaml --format json`,
	RunE: validatePlacement,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.component, "component", "", "component type (required)")
	validateCmd.Flags().StringVar(&validateFlags.space, "space", "", "layout space type (required)")
	validateCmd.Flags().StringVar(&validateFlags.propsFile, "props", "", "props JSON file, or - for stdin (required)")
	validateCmd.Flags().StringVar(&validateFlags.rulesPath, "rules", "", "rule table file (built-in defaults if omitted)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")

	_ = validateCmd.MarkFlagRequired("component")
	_ = validateCmd.MarkFlagRequired("space")
	_ = validateCmd.MarkFlagRequired("props")
}

func loadValidator(path string) (*compat.Validator, error) {
	if path == "" {
		return compat.New(compat.DefaultRegistry()), nil
	}
	registry, err := rules.Load(path)
	if err != nil {
		return nil, err
	}
	return compat.New(registry), nil
}

func readProps(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read props: %w", err)
	}

	var props map[string]any
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("failed to parse props JSON: %w", err)
	}
	return props, nil
}

func validatePlacement(cmd *cobra.Command, args []string) error {
	validator, err := loadValidator(validateFlags.rulesPath)
	if err != nil {
		return fmt.Errorf("failed to load rule table: %w", err)
	}

	props, err := readProps(validateFlags.propsFile)
	if err != nil {
		return err
	}

	result := validator.Validate(
		compat.ComponentType(validateFlags.component),
		compat.SpaceType(validateFlags.space),
		props,
	)

	switch validateFlags.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	case "text":
		printResult(os.Stdout, validateFlags.component, validateFlags.space, result)
	default:
		return fmt.Errorf("unsupported format: %s", validateFlags.format)
	}

	if !result.Valid {
		// Silent non-zero exit; the violations were already printed.
		if cmd != nil {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
		}
		return fmt.Errorf("placement has errors")
	}
	return nil
}

func printResult(w io.Writer, component, space string, result compat.Result) {
	if result.Valid && len(result.Warnings) == 0 {
		fmt.Fprintf(w, "OK: %s fits %s\n", component, space)
		return
	}

	for _, msg := range result.Errors {
		fmt.Fprintf(w, "error: %s\n", msg)
	}
	for _, msg := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}

	if fix := result.Fixes; fix != nil {
		fmt.Fprintln(w, "suggested fixes:")
		if fix.Variant != "" {
			fmt.Fprintf(w, "  use variant %q\n", fix.Variant)
		}
		if fix.MaxItems > 0 {
			fmt.Fprintf(w, "  cap items at %d\n", fix.MaxItems)
		}
		if fix.TruncateContent {
			fmt.Fprintln(w, "  truncate content")
		}
	}
}
