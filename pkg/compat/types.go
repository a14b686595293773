package compat

// ComponentType identifies a content-component kind. Each value corresponds
// 1:1 to a rendering component in the dashboard.
type ComponentType string

const (
	// ComponentChecklist renders an ordered list of action items.
	ComponentChecklist ComponentType = "checklist"

	// ComponentNarrativeParagraph renders free-form narrative text.
	ComponentNarrativeParagraph ComponentType = "narrative-paragraph"

	// ComponentMetricsGrid renders a grid of metric tiles.
	ComponentMetricsGrid ComponentType = "metrics-grid"

	// ComponentQueryRestatement renders the user's query in restated form.
	ComponentQueryRestatement ComponentType = "query-restatement"

	// ComponentSectionStack renders nested child sections.
	ComponentSectionStack ComponentType = "section-stack"
)

// SpaceType identifies a layout slot category. Each space carries an
// implicit capacity class: how much content it comfortably holds.
type SpaceType string

const (
	// SpaceSixthWidth is a one-sixth-width slot, the smallest capacity.
	SpaceSixthWidth SpaceType = "sixth-width"

	// SpaceQuarterWidth is a quarter-width slot.
	SpaceQuarterWidth SpaceType = "quarter-width"

	// SpaceThirdWidth is a one-third-width slot.
	SpaceThirdWidth SpaceType = "third-width"

	// SpaceHalfWidth is a half-width slot.
	SpaceHalfWidth SpaceType = "half-width"

	// SpaceFullWidth is a full-row slot, the largest capacity.
	SpaceFullWidth SpaceType = "full-width"
)

// Quantity names a structural measurement taken from component props.
type Quantity string

const (
	// QuantityItemCount counts entries in a list-bearing component.
	QuantityItemCount Quantity = "item_count"

	// QuantityTextLength is the total character length across all text
	// fragments of a text-bearing component.
	QuantityTextLength Quantity = "text_length"

	// QuantityNestingDepth is the maximum child-descriptor depth of a
	// composite component.
	QuantityNestingDepth Quantity = "nesting_depth"
)

// label returns the human-readable form used in violation messages.
func (q Quantity) label() string {
	switch q {
	case QuantityItemCount:
		return "item count"
	case QuantityTextLength:
		return "text length"
	case QuantityNestingDepth:
		return "nesting depth"
	default:
		return string(q)
	}
}

// Severity classifies a limit breach.
type Severity string

const (
	// SeverityError marks a hard-limit breach: the component will overflow
	// or break in the space and must be fixed before use.
	SeverityError Severity = "error"

	// SeverityWarning marks a soft-limit breach: the component remains
	// usable but will look degraded.
	SeverityWarning Severity = "warning"
)

// Violation records a single limit breach for one measured quantity.
type Violation struct {
	// Quantity is the measurement that breached its limit.
	Quantity Quantity

	// Severity is error for hard-limit breaches, warning for soft.
	Severity Severity

	// Limit is the bound that was breached (the hard limit for errors,
	// the soft limit for warnings).
	Limit int

	// Actual is the measured value.
	Actual int
}

// SuggestedFix is the corrective bundle derived from a violation list.
// Every field is mechanically implied by a violation; the suggester never
// proposes a fix category without a corresponding breach.
type SuggestedFix struct {
	// Variant is a more compact display variant to switch to, empty when
	// the component type offers none or already uses it.
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`

	// MaxItems caps the number of rendered items. Zero means no cap was
	// proposed.
	MaxItems int `json:"max_items,omitempty" yaml:"max_items,omitempty"`

	// TruncateContent recommends truncating text content to fit.
	TruncateContent bool `json:"truncate_content,omitempty" yaml:"truncate_content,omitempty"`
}

// Result is the immutable outcome of one validation call.
type Result struct {
	// Valid is true iff no error-severity violation occurred.
	Valid bool `json:"valid"`

	// Errors holds hard-limit breach messages in rule declaration order.
	Errors []string `json:"errors"`

	// Warnings holds soft-limit breach messages in rule declaration order.
	Warnings []string `json:"warnings"`

	// Fixes is present iff at least one violation occurred.
	Fixes *SuggestedFix `json:"suggested_fixes,omitempty"`
}
