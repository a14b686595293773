package compat

import (
	"fmt"
	"sort"
)

// QuantityLimit is one constrained quantity within a rule set. Hard must be
// greater than or equal to Soft; Register enforces this at authoring time.
type QuantityLimit struct {
	Quantity Quantity
	Soft     int
	Hard     int
}

// RuleSet holds the structural limits for one (component, space) pair.
// Limits are evaluated in declaration order, which keeps violation output
// deterministic for identical input.
type RuleSet struct {
	Limits []QuantityLimit
}

type ruleKey struct {
	component ComponentType
	space     SpaceType
}

// RulePair is one registered (component, space) rule, returned by Pairs
// for listing and diagnostics.
type RulePair struct {
	Component ComponentType
	Space     SpaceType
	Rules     *RuleSet
}

// Registry maps (component type, space type) pairs to their constraint rule
// sets, plus the compact display variant each component type offers.
//
// A Registry is populated at construction and read-only thereafter. Lookup
// fails closed: a pair with no registered rule set is unconstrained, never
// an error, since new component/space combinations are expected to appear
// before their rules are authored.
type Registry struct {
	rules    map[ruleKey]*RuleSet
	variants map[ComponentType]string
}

// NewRegistry creates an empty registry. Populate it with Register and
// RegisterVariant before handing it to a Validator; it must not be mutated
// once validation traffic starts.
func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[ruleKey]*RuleSet),
		variants: make(map[ComponentType]string),
	}
}

// Register adds the rule set for a (component, space) pair, replacing any
// previous registration. It rejects rule sets that violate the authoring
// invariants: empty limits, duplicate quantities, negative bounds, or a
// hard limit below the soft limit.
func (r *Registry) Register(component ComponentType, space SpaceType, rules *RuleSet) error {
	if rules == nil || len(rules.Limits) == 0 {
		return fmt.Errorf("rule set for (%s, %s) has no limits", component, space)
	}

	seen := make(map[Quantity]bool, len(rules.Limits))
	for _, l := range rules.Limits {
		if seen[l.Quantity] {
			return fmt.Errorf("rule set for (%s, %s) declares %s twice", component, space, l.Quantity)
		}
		seen[l.Quantity] = true

		if l.Soft < 0 || l.Hard < 0 {
			return fmt.Errorf("rule set for (%s, %s): %s has a negative limit", component, space, l.Quantity)
		}
		if l.Hard < l.Soft {
			return fmt.Errorf("rule set for (%s, %s): %s hard limit %d below soft limit %d",
				component, space, l.Quantity, l.Hard, l.Soft)
		}
	}

	r.rules[ruleKey{component, space}] = rules
	return nil
}

// RegisterVariant records the more compact display variant a component type
// offers. Component types without one are simply never registered.
func (r *Registry) RegisterVariant(component ComponentType, variant string) {
	if variant == "" {
		return
	}
	r.variants[component] = variant
}

// Lookup returns the rule set for the pair, or false when the pair is
// unconstrained. Pure lookup, no side effects.
func (r *Registry) Lookup(component ComponentType, space SpaceType) (*RuleSet, bool) {
	rules, ok := r.rules[ruleKey{component, space}]
	return rules, ok
}

// CompactVariant returns the component type's compact display variant,
// or false when none is registered.
func (r *Registry) CompactVariant(component ComponentType) (string, bool) {
	v, ok := r.variants[component]
	return v, ok
}

// Pairs returns every registered rule sorted by component then space.
func (r *Registry) Pairs() []RulePair {
	pairs := make([]RulePair, 0, len(r.rules))
	for key, rules := range r.rules {
		pairs = append(pairs, RulePair{Component: key.component, Space: key.space, Rules: rules})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Component != pairs[j].Component {
			return pairs[i].Component < pairs[j].Component
		}
		return pairs[i].Space < pairs[j].Space
	})
	return pairs
}

// Len returns the number of registered rule sets.
func (r *Registry) Len() int {
	return len(r.rules)
}

// DefaultRegistry returns the built-in rule table for the stock dashboard
// components and layout spaces. The thresholds encode how much content each
// capacity class holds before readability degrades (soft) or the component
// overflows its slot (hard).
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterVariant(ComponentChecklist, "compact")
	r.RegisterVariant(ComponentMetricsGrid, "dense")
	r.RegisterVariant(ComponentNarrativeParagraph, "summary")
	r.RegisterVariant(ComponentSectionStack, "collapsed")

	mustRegister := func(component ComponentType, space SpaceType, limits ...QuantityLimit) {
		if err := r.Register(component, space, &RuleSet{Limits: limits}); err != nil {
			panic(fmt.Sprintf("compat: invalid built-in rule: %v", err))
		}
	}

	mustRegister(ComponentChecklist, SpaceSixthWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 4, Hard: 6})
	mustRegister(ComponentChecklist, SpaceQuarterWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 6, Hard: 10})
	mustRegister(ComponentChecklist, SpaceThirdWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 8, Hard: 12})
	mustRegister(ComponentChecklist, SpaceHalfWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 10, Hard: 16})
	mustRegister(ComponentChecklist, SpaceFullWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 16, Hard: 24})

	mustRegister(ComponentMetricsGrid, SpaceSixthWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 2, Hard: 4})
	mustRegister(ComponentMetricsGrid, SpaceQuarterWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 4, Hard: 6})
	mustRegister(ComponentMetricsGrid, SpaceThirdWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 4, Hard: 8})
	mustRegister(ComponentMetricsGrid, SpaceHalfWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 6, Hard: 9})
	mustRegister(ComponentMetricsGrid, SpaceFullWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 9, Hard: 12})

	mustRegister(ComponentNarrativeParagraph, SpaceSixthWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 100, Hard: 160})
	mustRegister(ComponentNarrativeParagraph, SpaceQuarterWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 200, Hard: 300})
	mustRegister(ComponentNarrativeParagraph, SpaceThirdWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 300, Hard: 450})
	mustRegister(ComponentNarrativeParagraph, SpaceHalfWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 450, Hard: 700})
	mustRegister(ComponentNarrativeParagraph, SpaceFullWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 900, Hard: 1400})

	mustRegister(ComponentQueryRestatement, SpaceSixthWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 80, Hard: 140})
	mustRegister(ComponentQueryRestatement, SpaceQuarterWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 140, Hard: 240})
	mustRegister(ComponentQueryRestatement, SpaceHalfWidth,
		QuantityLimit{Quantity: QuantityTextLength, Soft: 280, Hard: 420})

	mustRegister(ComponentSectionStack, SpaceHalfWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 4, Hard: 6},
		QuantityLimit{Quantity: QuantityNestingDepth, Soft: 2, Hard: 3})
	mustRegister(ComponentSectionStack, SpaceFullWidth,
		QuantityLimit{Quantity: QuantityItemCount, Soft: 6, Hard: 10},
		QuantityLimit{Quantity: QuantityNestingDepth, Soft: 3, Hard: 4})

	return r
}
