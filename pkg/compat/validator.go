package compat

import "fmt"

// Validator is the single entry point the presentation layer calls. It
// composes registry lookup, prop inspection, constraint evaluation, and fix
// suggestion into one synchronous, side-effect-free call.
type Validator struct {
	registry *Registry
}

// New creates a validator over an explicitly constructed registry. The
// registry must be fully populated before the first Validate call and is
// treated as read-only thereafter.
func New(registry *Registry) *Validator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Validator{registry: registry}
}

// Registry returns the registry the validator was constructed with.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Validate decides whether the component will render acceptably in the
// space given its props. Calling it twice with identical arguments yields
// an identical result, message for message.
func (v *Validator) Validate(component ComponentType, space SpaceType, props map[string]any) Result {
	rules, ok := v.registry.Lookup(component, space)
	if !ok {
		return Result{Valid: true}
	}

	inspected := Inspect(component, props)
	violations := Evaluate(rules, inspected)

	result := Result{Valid: true}
	for _, violation := range violations {
		msg := formatViolation(violation)
		if violation.Severity == SeverityError {
			result.Valid = false
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}

	compactVariant, _ := v.registry.CompactVariant(component)
	if inspected.Variant == compactVariant {
		// Already on the compact variant, nothing more compact to propose.
		compactVariant = ""
	}
	result.Fixes = Suggest(violations, compactVariant)

	return result
}

// formatViolation renders the stable message template for a violation.
// The template is fixed per severity so results snapshot cleanly.
func formatViolation(v Violation) string {
	if v.Severity == SeverityWarning {
		return fmt.Sprintf("%s exceeds soft limit: %d > %d", v.Quantity.label(), v.Actual, v.Limit)
	}
	return fmt.Sprintf("%s exceeds limit: %d > %d", v.Quantity.label(), v.Actual, v.Limit)
}
