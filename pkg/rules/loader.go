package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tessera-hq/tessera/pkg/compat"
)

// File is the YAML shape of a rule-table file.
type File struct {
	// Variants maps component types to their compact display variant.
	Variants map[string]string `yaml:"variants"`

	// Rules declares one rule set per (component, space) pair.
	Rules []Rule `yaml:"rules"`
}

// Rule is one (component, space) constraint declaration.
type Rule struct {
	Component string  `yaml:"component"`
	Space     string  `yaml:"space"`
	Limits    []Limit `yaml:"limits"`
}

// Limit constrains a single quantity. Hard must be >= Soft.
type Limit struct {
	Quantity string `yaml:"quantity"`
	Soft     int    `yaml:"soft"`
	Hard     int    `yaml:"hard"`
}

// Load reads and parses a rule file into a populated registry.
func Load(path string) (*compat.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %q: %w", path, err)
	}

	registry, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule file %q: %w", path, err)
	}
	return registry, nil
}

// Parse builds a registry from rule-file YAML. Authoring invariants are
// enforced here, at load time, so the constructed registry never carries a
// hard limit below its soft limit.
func Parse(data []byte) (*compat.Registry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule YAML: %w", err)
	}

	registry := compat.NewRegistry()

	for component, variant := range file.Variants {
		registry.RegisterVariant(compat.ComponentType(component), variant)
	}

	for i, rule := range file.Rules {
		if rule.Component == "" || rule.Space == "" {
			return nil, fmt.Errorf("rule %d: component and space are required", i)
		}

		limits := make([]compat.QuantityLimit, 0, len(rule.Limits))
		for _, l := range rule.Limits {
			if l.Quantity == "" {
				return nil, fmt.Errorf("rule %d (%s, %s): limit without a quantity",
					i, rule.Component, rule.Space)
			}
			limits = append(limits, compat.QuantityLimit{
				Quantity: compat.Quantity(l.Quantity),
				Soft:     l.Soft,
				Hard:     l.Hard,
			})
		}

		ruleSet := &compat.RuleSet{Limits: limits}
		if err := registry.Register(compat.ComponentType(rule.Component), compat.SpaceType(rule.Space), ruleSet); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return registry, nil
}
