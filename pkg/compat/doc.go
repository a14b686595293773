// Package compat decides whether a dashboard content component will render
// acceptably inside a layout space, and if not, why and what to change.
//
// # Overview
//
// The validator works purely from structural signals supplied via props
// (item counts, text length, nesting depth); it never measures rendered
// geometry. A single synchronous call composes four stages:
//
//  1. Registry lookup: find the constraint rule set for the
//     (component type, space type) pair. Absent pair means unconstrained.
//
//  2. Prop inspection: reduce the prop bag to measurable quantities.
//     Missing or malformed props measure as zero, never as a failure.
//
//  3. Evaluation: compare each quantity against its soft and hard limits,
//     classifying breaches as warnings or errors in the rule's fixed
//     declaration order.
//
//  4. Fix suggestion: reduce the violation list to at most one corrective
//     proposal per category (display variant, item cap, truncation).
//
// # Basic Usage
//
//	validator := compat.New(compat.DefaultRegistry())
//
//	result := validator.Validate("checklist", "sixth-width", props)
//	if !result.Valid {
//	    for _, msg := range result.Errors {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Thread Safety
//
// A Validator holds only the read-only registry it was constructed with.
// Validate allocates all per-call state locally and is safe for concurrent
// use from any number of goroutines without locking.
package compat
