// Package rules loads constraint rule tables from YAML files and keeps a
// running validator in sync with them.
//
// A rule file declares compact variants per component type and one rule set
// per (component, space) pair:
//
//	variants:
//	  checklist: compact
//	  narrative-paragraph: summary
//
//	rules:
//	  - component: checklist
//	    space: sixth-width
//	    limits:
//	      - quantity: item_count
//	        soft: 4
//	        hard: 6
//
// The Manager swaps in a freshly built registry atomically on reload, so
// in-flight validations always see one consistent table. A file that fails
// to parse or breaks an authoring invariant keeps the previous table live.
package rules
