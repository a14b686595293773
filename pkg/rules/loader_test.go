package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tessera-hq/tessera/pkg/compat"
)

const validRuleYAML = `
variants:
  checklist: compact
  narrative-paragraph: summary

rules:
  - component: checklist
    space: sixth-width
    limits:
      - quantity: item_count
        soft: 4
        hard: 6
  - component: narrative-paragraph
    space: quarter-width
    limits:
      - quantity: text_length
        soft: 200
        hard: 300
`

func TestParse_ValidFile(t *testing.T) {
	registry, err := Parse([]byte(validRuleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if registry.Len() != 2 {
		t.Errorf("expected 2 rule sets, got %d", registry.Len())
	}

	ruleSet, ok := registry.Lookup(compat.ComponentChecklist, compat.SpaceSixthWidth)
	if !ok {
		t.Fatal("checklist/sixth-width rule missing")
	}
	if len(ruleSet.Limits) != 1 || ruleSet.Limits[0].Hard != 6 {
		t.Errorf("unexpected rule set: %+v", ruleSet)
	}

	if v, ok := registry.CompactVariant(compat.ComponentChecklist); !ok || v != "compact" {
		t.Errorf("CompactVariant = %q, %v", v, ok)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "rules: [",
			wantErr: "failed to parse",
		},
		{
			name: "missing component",
			yaml: `
rules:
  - space: half-width
    limits:
      - quantity: item_count
        soft: 2
        hard: 4
`,
			wantErr: "component and space are required",
		},
		{
			name: "missing quantity",
			yaml: `
rules:
  - component: checklist
    space: half-width
    limits:
      - soft: 2
        hard: 4
`,
			wantErr: "limit without a quantity",
		},
		{
			name: "hard below soft",
			yaml: `
rules:
  - component: checklist
    space: half-width
    limits:
      - quantity: item_count
        soft: 6
        hard: 4
`,
			wantErr: "below soft limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(validRuleYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	registry, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	validator := compat.New(registry)
	result := validator.Validate(compat.ComponentChecklist, compat.SpaceSixthWidth,
		map[string]any{"items": []any{1, 2, 3, 4, 5, 6, 7, 8}})
	if result.Valid {
		t.Error("8 items should breach the loaded hard limit of 6")
	}
	if result.Fixes == nil || result.Fixes.MaxItems != 6 {
		t.Errorf("expected MaxItems=6, got %+v", result.Fixes)
	}
}
