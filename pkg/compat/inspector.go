package compat

import "unicode/utf8"

// Inspected holds the measurable quantities derived from one prop bag,
// plus the component's declared display variant if present. It is computed
// fresh per call and never mutated after creation.
type Inspected struct {
	// Quantities maps each measured quantity to its value. A quantity the
	// component type does not carry is simply absent and reads as zero.
	Quantities map[Quantity]int

	// Variant is the declared display variant, empty when not supplied.
	Variant string
}

// Inspect reduces a prop bag to the quantities relevant for the component
// type. Dispatch is per known component type; an unknown type measures
// nothing. Missing or type-mismatched props degrade to zero rather than
// failing the call; absence means "nothing to measure".
func Inspect(component ComponentType, props map[string]any) Inspected {
	insp := Inspected{
		Quantities: make(map[Quantity]int, 2),
		Variant:    stringProp(props, "variant"),
	}

	switch component {
	case ComponentChecklist:
		insp.Quantities[QuantityItemCount] = countItems(props["items"])

	case ComponentMetricsGrid:
		n := countItems(props["metrics"])
		if n == 0 {
			n = countItems(props["items"])
		}
		insp.Quantities[QuantityItemCount] = n

	case ComponentNarrativeParagraph:
		n := textLength(props["text"])
		if n == 0 {
			n = textLength(props["paragraphs"])
		}
		insp.Quantities[QuantityTextLength] = n

	case ComponentQueryRestatement:
		n := textLength(props["query"])
		if n == 0 {
			n = textLength(props["text"])
		}
		insp.Quantities[QuantityTextLength] = n

	case ComponentSectionStack:
		children := props["children"]
		if children == nil {
			children = props["sections"]
		}
		insp.Quantities[QuantityItemCount] = countItems(children)
		insp.Quantities[QuantityNestingDepth] = nestingDepth(children)
	}

	return insp
}

// stringProp returns the prop as a string, or empty on absence or mismatch.
func stringProp(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	s, _ := props[key].(string)
	return s
}

// countItems counts entries in a collection prop. JSON and YAML decoding
// both produce []any, but typed slices from in-process callers are
// accepted too.
func countItems(v any) int {
	switch items := v.(type) {
	case []any:
		return len(items)
	case []string:
		return len(items)
	case []map[string]any:
		return len(items)
	default:
		return 0
	}
}

// textLength sums character length across all text fragments. A single
// string and an ordered sequence of strings are handled uniformly;
// non-string fragments contribute nothing.
func textLength(v any) int {
	switch text := v.(type) {
	case string:
		return utf8.RuneCountInString(text)
	case []string:
		total := 0
		for _, s := range text {
			total += utf8.RuneCountInString(s)
		}
		return total
	case []any:
		total := 0
		for _, item := range text {
			if s, ok := item.(string); ok {
				total += utf8.RuneCountInString(s)
			}
		}
		return total
	default:
		return 0
	}
}

// nestingDepth walks child descriptors and returns the maximum depth.
// A descriptor nests through its own "children" or "sections" key.
func nestingDepth(v any) int {
	children, ok := v.([]any)
	if !ok || len(children) == 0 {
		return 0
	}

	deepest := 0
	for _, child := range children {
		desc, ok := child.(map[string]any)
		if !ok {
			continue
		}
		grandchildren := desc["children"]
		if grandchildren == nil {
			grandchildren = desc["sections"]
		}
		if d := nestingDepth(grandchildren); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}
