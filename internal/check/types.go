// Package check runs consistency rules over parsed documentation pages.
// Rules are registered once at init time and can be disabled or have
// their severity overridden through configuration.
package check

import (
	"github.com/sqldoc-dev/sqldoc/internal/doc"
)

// Rule IDs for failures raised outside the rule registry. Structural
// failures surface before a Document exists, so they cannot run as
// registered rules.
const (
	// RuleParseError covers malformed page structure.
	RuleParseError = "DP01"
	// RuleTableFormat covers structurally invalid tables.
	RuleTableFormat = "DP02"
)

// Diagnostic is a single finding in a document.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	// Section is the heading of the section the finding is in, ""
	// when the document failed to parse.
	Section string
	// Line is 1-based; 0 when no position applies.
	Line int
}

// Result is the per-document outcome of a check pass.
type Result struct {
	// Path identifies the document, input order is preserved by the
	// runner.
	Path        string
	Title       string
	Diagnostics []Diagnostic
}

// Failed reports whether the document has any error-severity finding.
// Warnings and below do not fail a document.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CheckFunc analyzes a parsed document and returns diagnostics.
type CheckFunc func(d *doc.Document) []Diagnostic

// RuleDef is a data-driven rule definition. Rules are stateless; all
// context arrives through the document parameter.
type RuleDef struct {
	// ID is the unique identifier, e.g. "DC01".
	ID string
	// Name is the human-readable name, e.g. "consistency.output-columns".
	Name string
	// Group is the category, e.g. "consistency" or "structure".
	Group string
	// Description is shown by the rules command.
	Description string
	// Severity is the default severity.
	Severity Severity
	// Check is the rule body.
	Check CheckFunc
}
