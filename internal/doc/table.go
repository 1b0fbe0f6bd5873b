package doc

import (
	"fmt"
	"regexp"
	"strings"
)

// Table is a Markdown table: ordered column names and rows of opaque
// text cells. Cell values are never coerced; "NULL" and "42" stay text.
type Table struct {
	// Columns are the header cells, unique within the table.
	Columns []string
	// Rows are the data rows; every row has len(Columns) cells.
	Rows [][]string
	// Line is the 1-based line of the header row.
	Line int
}

// TableFormatError reports a structurally invalid Markdown table.
type TableFormatError struct {
	Line    int
	Message string
}

func (e *TableFormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// separatorCell matches one cell of the header separator row, e.g.
// "---", ":---", "---:" or ":---:".
var separatorCell = regexp.MustCompile(`^:?-+:?$`)

// IsTableRow reports whether a line looks like a Markdown table row.
func IsTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}

// isSeparatorRow reports whether cells form a valid separator row.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return true
}

// splitRow splits a table row into trimmed cells, dropping the outer
// pipe delimiters.
func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// ParseTable parses the raw lines of a Markdown table. The first line
// is the header row, the second the separator row, the rest data rows.
// A ragged row is an error; cells are never silently truncated or padded.
func ParseTable(lines []string, startLine int) (*Table, error) {
	if len(lines) < 2 {
		return nil, &TableFormatError{Line: startLine, Message: "table is missing its header separator row"}
	}

	header := splitRow(lines[0])
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if seen[col] {
			return nil, &TableFormatError{Line: startLine, Message: fmt.Sprintf("duplicate column %q", col)}
		}
		seen[col] = true
	}

	sep := splitRow(lines[1])
	if !isSeparatorRow(sep) {
		return nil, &TableFormatError{Line: startLine + 1, Message: "table is missing its header separator row"}
	}
	if len(sep) != len(header) {
		return nil, &TableFormatError{
			Line:    startLine + 1,
			Message: fmt.Sprintf("separator row has %d cells, header has %d", len(sep), len(header)),
		}
	}

	t := &Table{Columns: header, Line: startLine}
	for i, line := range lines[2:] {
		cells := splitRow(line)
		if len(cells) != len(header) {
			return nil, &TableFormatError{
				Line:    startLine + 2 + i,
				Message: fmt.Sprintf("row has %d cells, expected %d", len(cells), len(header)),
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Render serializes the table back to Markdown. Parsing the result
// yields the same column headers and cell contents.
func (t *Table) Render() string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(c)
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(t.Columns)
	sep := make([]string, len(t.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return b.String()
}
