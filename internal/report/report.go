// Package report turns check results into the final pass/fail summary.
// Output is deterministic: documents appear in input order and the
// same results always render the same bytes.
package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sqldoc-dev/sqldoc/internal/check"
	"github.com/sqldoc-dev/sqldoc/internal/cli/output"
)

// Summary aggregates counts across all checked documents.
type Summary struct {
	Documents int `json:"documents"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Info      int `json:"info"`
	Hints     int `json:"hints"`
}

// DiagnosticReport is the serializable form of a diagnostic.
type DiagnosticReport struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Section  string `json:"section,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

// DocumentReport is the serializable per-document outcome.
type DocumentReport struct {
	Path        string             `json:"path"`
	Title       string             `json:"title,omitempty"`
	Passed      bool               `json:"passed"`
	Diagnostics []DiagnosticReport `json:"diagnostics,omitempty"`
}

// Report is the machine-readable form of a whole check run.
type Report struct {
	Summary   Summary          `json:"summary"`
	Documents []DocumentReport `json:"documents"`
}

// Build assembles a Report preserving input order. An empty input
// yields an empty report with an all-zero (passing) summary.
func Build(results []check.Result) *Report {
	rep := &Report{Documents: make([]DocumentReport, 0, len(results))}
	rep.Summary.Documents = len(results)

	for i := range results {
		res := &results[i]
		dr := DocumentReport{Path: res.Path, Title: res.Title, Passed: !res.Failed()}
		for _, d := range res.Diagnostics {
			dr.Diagnostics = append(dr.Diagnostics, DiagnosticReport{
				RuleID:   d.RuleID,
				Severity: d.Severity.String(),
				Section:  d.Section,
				Line:     d.Line,
				Message:  d.Message,
			})
			switch d.Severity {
			case check.SeverityError:
				rep.Summary.Errors++
			case check.SeverityWarning:
				rep.Summary.Warnings++
			case check.SeverityInfo:
				rep.Summary.Info++
			case check.SeverityHint:
				rep.Summary.Hints++
			}
		}
		if dr.Passed {
			rep.Summary.Passed++
		} else {
			rep.Summary.Failed++
		}
		rep.Documents = append(rep.Documents, dr)
	}
	return rep
}

// Render writes the report in the renderer's mode and reports whether
// any document failed.
func Render(r *output.Renderer, results []check.Result) (bool, error) {
	rep := Build(results)

	if r.EffectiveMode() == output.ModeJSON {
		return rep.Summary.Failed > 0, r.JSON(rep)
	}

	renderText(r, rep)
	return rep.Summary.Failed > 0, nil
}

func renderText(r *output.Renderer, rep *Report) {
	if rep.Summary.Documents == 0 {
		r.Success("No documents found, nothing to check")
		return
	}

	for _, dr := range rep.Documents {
		if len(dr.Diagnostics) == 0 {
			continue
		}
		r.Println(r.Styles().DocPath.Render(dr.Path))
		for _, d := range dr.Diagnostics {
			loc := fmt.Sprintf("%d", d.Line)
			if d.Line == 0 {
				loc = "-"
			}
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-4s", loc)),
				severityLabel(r, d.Severity),
				r.Styles().Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	renderSummaryTable(r, rep)

	if rep.Summary.Failed == 0 {
		r.Success(fmt.Sprintf("All %d documents passed", rep.Summary.Documents))
	} else {
		r.Println(r.Styles().Error.Render(
			fmt.Sprintf("%d of %d documents failed", rep.Summary.Failed, rep.Summary.Documents)))
	}
}

// renderSummaryTable prints a per-document status table. In markdown
// mode go-pretty emits a Markdown table so the report can be pasted
// into a review.
func renderSummaryTable(r *output.Renderer, rep *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Document", "Status", "Findings"})

	for _, dr := range rep.Documents {
		status := "pass"
		if !dr.Passed {
			status = "FAIL"
		}
		t.AppendRow(table.Row{dr.Path, status, len(dr.Diagnostics)})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
}

func severityLabel(r *output.Renderer, sev string) string {
	padded := fmt.Sprintf("%-7s", sev)
	switch sev {
	case "error":
		return r.Styles().Error.Render(padded)
	case "warning":
		return r.Styles().Warning.Render(padded)
	case "info":
		return r.Styles().Info.Render(padded)
	default:
		return r.Styles().Muted.Render(padded)
	}
}
