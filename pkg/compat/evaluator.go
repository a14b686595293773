package compat

// Evaluate compares inspected quantities against a rule set and returns the
// resulting violations in the rule's declaration order. A nil rule set
// (unconstrained pair) yields no violations. A quantity absent from the
// inspection reads as zero, which can never breach a nonnegative limit.
func Evaluate(rules *RuleSet, inspected Inspected) []Violation {
	if rules == nil {
		return nil
	}

	var violations []Violation
	for _, limit := range rules.Limits {
		actual := inspected.Quantities[limit.Quantity]

		switch {
		case actual > limit.Hard:
			violations = append(violations, Violation{
				Quantity: limit.Quantity,
				Severity: SeverityError,
				Limit:    limit.Hard,
				Actual:   actual,
			})
		case actual > limit.Soft:
			violations = append(violations, Violation{
				Quantity: limit.Quantity,
				Severity: SeverityWarning,
				Limit:    limit.Soft,
				Actual:   actual,
			})
		}
	}
	return violations
}
