package compat

// fixAccumulator reduces a violation sequence into at most one proposal per
// fix category. Keeping this a dedicated reducer, rather than conditionals
// inlined in the validator, keeps the minimality invariant independently
// testable: no violations in, no fix out.
type fixAccumulator struct {
	maxItems     int
	itemError    bool
	truncate     bool
	anyViolation bool
}

func (a *fixAccumulator) add(v Violation) {
	a.anyViolation = true

	switch v.Quantity {
	case QuantityItemCount:
		// The cap follows the most severe breached bound: once a hard
		// limit is broken the hard cap is the proposal, and a later soft
		// breach must not loosen or tighten it. Among equal severities the
		// tighter cap wins.
		severe := v.Severity == SeverityError
		switch {
		case severe && !a.itemError:
			a.itemError = true
			a.maxItems = v.Limit
		case severe == a.itemError && (a.maxItems == 0 || v.Limit < a.maxItems):
			a.maxItems = v.Limit
		}

	case QuantityTextLength:
		a.truncate = true
	}
}

// Suggest derives the corrective bundle for a violation list. It returns
// nil when the list is empty. compactVariant is the component type's more
// compact display variant, or empty when none applies; it is proposed
// whenever any violation exists, since switching variant relieves every
// quantity at once.
func Suggest(violations []Violation, compactVariant string) *SuggestedFix {
	if len(violations) == 0 {
		return nil
	}

	var acc fixAccumulator
	for _, v := range violations {
		acc.add(v)
	}

	fix := &SuggestedFix{
		MaxItems:        acc.maxItems,
		TruncateContent: acc.truncate,
	}
	if acc.anyViolation {
		fix.Variant = compactVariant
	}
	return fix
}
