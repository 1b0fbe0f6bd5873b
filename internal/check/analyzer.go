package check

import (
	"sort"

	"github.com/sqldoc-dev/sqldoc/internal/doc"
)

// Analyzer runs registered rules against parsed documents.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates an analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs all enabled rules against the document and returns the
// findings sorted by line, then rule ID, so output is deterministic.
func (a *Analyzer) Analyze(d *doc.Document) []Diagnostic {
	if d == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range AllRules() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		diags := rule.Check(d)
		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Line != diagnostics[j].Line {
			return diagnostics[i].Line < diagnostics[j].Line
		}
		return diagnostics[i].RuleID < diagnostics[j].RuleID
	})
	return diagnostics
}
