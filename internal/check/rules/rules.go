// Package rules registers the built-in consistency rules. Import it
// for side effects:
//
//	import _ "github.com/sqldoc-dev/sqldoc/internal/check/rules"
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sqldoc-dev/sqldoc/internal/check"
	"github.com/sqldoc-dev/sqldoc/internal/doc"
	"github.com/sqldoc-dev/sqldoc/internal/sqlscan"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "DC01",
		Name:        "consistency.output-columns",
		Group:       "consistency",
		Description: "Output table column count must match the query's selected expressions",
		Severity:    check.SeverityError,
		Check:       checkOutputColumnCount,
	})
	check.Register(check.RuleDef{
		ID:          "DC02",
		Name:        "consistency.output-names",
		Group:       "consistency",
		Description: "Output table column names should match the query's aliases",
		Severity:    check.SeverityHint,
		Check:       checkOutputColumnNames,
	})
	check.Register(check.RuleDef{
		ID:          "DC03",
		Name:        "structure.orphan-output",
		Group:       "structure",
		Description: "Output table has no preceding query block",
		Severity:    check.SeverityWarning,
		Check:       checkOrphanOutput,
	})
	check.Register(check.RuleDef{
		ID:          "DC04",
		Name:        "structure.empty-output",
		Group:       "structure",
		Description: "Output table declares columns but no rows",
		Severity:    check.SeverityInfo,
		Check:       checkEmptyOutput,
	})
}

// outputTable pairs an output table with the query block that
// precedes it in source order.
type outputTable struct {
	table   doc.Table
	section string
	// query is nil when no query block appears before the table.
	query *doc.QueryBlock
}

// event interleaves queries and tables by source line, restoring the
// order lost by the per-section grouping.
type event struct {
	line    int
	section string
	query   *doc.QueryBlock
	table   *doc.Table
	output  bool
}

// outputTables walks the document and yields each output-section table
// together with the nearest preceding query block, in source order.
func outputTables(d *doc.Document) []outputTable {
	var events []event
	for si := range d.Sections {
		s := &d.Sections[si]
		for qi := range s.Queries {
			events = append(events, event{
				line:    s.Queries[qi].Line,
				section: s.Heading,
				query:   &s.Queries[qi],
			})
		}
		for ti := range s.Tables {
			events = append(events, event{
				line:    s.Tables[ti].Line,
				section: s.Heading,
				table:   &s.Tables[ti],
				output:  s.Kind == doc.KindOutput,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].line < events[j].line })

	var (
		out       []outputTable
		lastQuery *doc.QueryBlock
	)
	for _, e := range events {
		switch {
		case e.query != nil:
			lastQuery = e.query
		case e.table != nil && e.output:
			out = append(out, outputTable{table: *e.table, section: e.section, query: lastQuery})
		}
	}
	return out
}

// scanQuery extracts select info, returning nil for non-SELECT
// statements (an UPDATE page's before/after tables have no select
// list to compare against).
func scanQuery(q *doc.QueryBlock) *sqlscan.SelectInfo {
	if q == nil {
		return nil
	}
	info, err := sqlscan.Scan(q.SQL)
	if err != nil {
		return nil
	}
	return info
}

func checkOutputColumnCount(d *doc.Document) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, ot := range outputTables(d) {
		info := scanQuery(ot.query)
		if info == nil {
			continue
		}
		want, ok := info.ColumnCount()
		if !ok {
			continue // SELECT * makes the count unknowable
		}
		if got := ot.table.ColumnCount(); got != want {
			diags = append(diags, check.Diagnostic{
				RuleID:   "DC01",
				Severity: check.SeverityError,
				Section:  ot.section,
				Line:     ot.table.Line,
				Message: fmt.Sprintf("output table has %d columns, query selects %d expressions",
					got, want),
			})
		}
	}
	return diags
}

func checkOutputColumnNames(d *doc.Document) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, ot := range outputTables(d) {
		info := scanQuery(ot.query)
		if info == nil || info.Star {
			continue
		}
		if len(info.Items) != ot.table.ColumnCount() {
			continue // DC01 territory
		}
		for i, item := range info.Items {
			alias := sqlscan.Alias(item)
			if alias == "" {
				continue
			}
			if !strings.EqualFold(alias, ot.table.Columns[i]) {
				diags = append(diags, check.Diagnostic{
					RuleID:   "DC02",
					Severity: check.SeverityHint,
					Section:  ot.section,
					Line:     ot.table.Line,
					Message: fmt.Sprintf("column %d is named %q, query aliases it %q",
						i+1, ot.table.Columns[i], alias),
				})
			}
		}
	}
	return diags
}

func checkOrphanOutput(d *doc.Document) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, ot := range outputTables(d) {
		if ot.query == nil {
			diags = append(diags, check.Diagnostic{
				RuleID:   "DC03",
				Severity: check.SeverityWarning,
				Section:  ot.section,
				Line:     ot.table.Line,
				Message:  "output table has no preceding query block",
			})
		}
	}
	return diags
}

func checkEmptyOutput(d *doc.Document) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, ot := range outputTables(d) {
		if len(ot.table.Rows) == 0 {
			diags = append(diags, check.Diagnostic{
				RuleID:   "DC04",
				Severity: check.SeverityInfo,
				Section:  ot.section,
				Line:     ot.table.Line,
				Message:  "output table declares columns but no rows",
			})
		}
	}
	return diags
}
