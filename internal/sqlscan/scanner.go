// Package sqlscan extracts the selected-expression list from a SELECT
// statement without parsing full SQL. It is a best-effort syntactic
// scan: commas split items only at parenthesis depth zero and outside
// string or identifier quotes, so COALESCE(a, b) AS c counts as one
// item. Nothing here validates SQL against a schema.
package sqlscan

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNoSelect is returned when the statement has no SELECT clause.
var ErrNoSelect = errors.New("statement has no SELECT clause")

// SelectInfo describes the select list of a statement.
type SelectInfo struct {
	// Items are the raw selected expressions, trimmed, in order.
	Items []string
	// Star is true when any item is * or table.*, making the output
	// column count unknowable from the text alone.
	Star bool
	// Distinct is true for SELECT DISTINCT.
	Distinct bool
}

// ColumnCount returns the number of selected expressions. The second
// return is false when the count cannot be determined (star select).
func (s *SelectInfo) ColumnCount() (int, bool) {
	if s.Star {
		return 0, false
	}
	return len(s.Items), true
}

// Scan extracts the select list from a SQL statement. Statements with
// no SELECT clause (plain UPDATE, DELETE, DDL) return ErrNoSelect.
func Scan(sql string) (*SelectInfo, error) {
	src := stripLineComments(sql)

	start, ok := findKeyword(src, "SELECT", 0)
	if !ok {
		return nil, ErrNoSelect
	}
	pos := start + len("SELECT")

	info := &SelectInfo{}
	if next, ok := matchKeywordAt(src, "DISTINCT", pos); ok {
		info.Distinct = true
		pos = next
	}

	items, _ := splitItems(src[pos:])
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		info.Items = append(info.Items, item)
		if item == "*" || strings.HasSuffix(item, ".*") {
			info.Star = true
		}
	}
	return info, nil
}

// Alias returns the output column name of a selected expression when
// one is derivable: an AS alias, a trailing bare identifier, or the
// final segment of a plain column reference. Returns "" for opaque
// expressions.
func Alias(item string) string {
	fields := splitTopLevelFields(item)
	if len(fields) == 0 {
		return ""
	}

	// Explicit alias: "expr AS name". The bare "expr name" form is
	// only accepted for two-field items to avoid misreading operators.
	if len(fields) >= 2 {
		last := fields[len(fields)-1]
		if strings.EqualFold(fields[len(fields)-2], "AS") {
			return unquoteIdent(last)
		}
		if len(fields) == 2 && isIdentifier(last) {
			return unquoteIdent(last)
		}
		return ""
	}

	// Single field: a.b.c -> c, bare identifier -> itself.
	single := fields[0]
	if idx := strings.LastIndex(single, "."); idx >= 0 {
		single = single[idx+1:]
	}
	if isIdentifier(single) {
		return unquoteIdent(single)
	}
	return ""
}

// splitItems splits on top-level commas, stopping at a top-level FROM.
// Returns the items and the offset where scanning stopped.
func splitItems(s string) ([]string, int) {
	var (
		items []string
		depth int
		buf   strings.Builder
	)
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipQuoted(s, i)
			buf.WriteString(s[i:end])
			i = end
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			items = append(items, buf.String())
			buf.Reset()
			i++
			continue
		default:
			if depth == 0 && isWordBoundary(s, i) {
				if _, ok := matchKeywordAt(s, "FROM", i); ok {
					items = append(items, buf.String())
					return items, i
				}
			}
		}
		buf.WriteByte(c)
		i++
	}
	items = append(items, buf.String())
	return items, len(s)
}

// skipQuoted returns the index just past a quoted run starting at i.
// Doubled quotes inside the run are treated as escapes.
func skipQuoted(s string, i int) int {
	quote := s[i]
	j := i + 1
	for j < len(s) {
		if s[j] == quote {
			if j+1 < len(s) && s[j+1] == quote {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return len(s)
}

// splitTopLevelFields splits an expression on whitespace outside
// parentheses and quotes.
func splitTopLevelFields(s string) []string {
	var (
		fields []string
		depth  int
		buf    strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			fields = append(fields, buf.String())
			buf.Reset()
		}
	}
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipQuoted(s, i)
			buf.WriteString(s[i:end])
			i = end
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			flush()
			i++
			continue
		}
		buf.WriteByte(c)
		i++
	}
	flush()
	return fields
}

// findKeyword locates a keyword at a word boundary outside quotes,
// searching from offset. Returns the index and whether it was found.
func findKeyword(s, kw string, from int) (int, bool) {
	i := from
	for i < len(s) {
		c := s[i]
		if c == '\'' || c == '"' || c == '`' {
			i = skipQuoted(s, i)
			continue
		}
		if isWordBoundary(s, i) {
			if _, ok := matchKeywordAt(s, kw, i); ok {
				return i, true
			}
		}
		i++
	}
	return 0, false
}

// matchKeywordAt matches a keyword at position i, skipping leading
// whitespace. Returns the position just past the keyword.
func matchKeywordAt(s, kw string, i int) (int, bool) {
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	if i+len(kw) > len(s) {
		return 0, false
	}
	if !strings.EqualFold(s[i:i+len(kw)], kw) {
		return 0, false
	}
	end := i + len(kw)
	if end < len(s) && isWordChar(s[end]) {
		return 0, false
	}
	if i > 0 && isWordChar(s[i-1]) {
		return 0, false
	}
	return end, true
}

func isWordBoundary(s string, i int) bool {
	return i == 0 || !isWordChar(s[i-1])
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isIdentifier reports whether s is a bare or quoted identifier, and
// not a clause keyword that can trail a select item.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '"' || s[0] == '`' {
		return len(s) > 1 && s[len(s)-1] == s[0]
	}
	for i := 0; i < len(s); i++ {
		if !isWordChar(s[i]) {
			return false
		}
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	switch strings.ToUpper(s) {
	case "FROM", "WHERE", "GROUP", "ORDER", "HAVING", "LIMIT", "OFFSET", "AS", "ON", "USING":
		return false
	}
	return true
}

func unquoteIdent(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// stripLineComments removes -- comments so keywords inside them are
// not matched.
func stripLineComments(sql string) string {
	lines := strings.Split(sql, "\n")
	for i, line := range lines {
		if idx := indexLineComment(line); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

// indexLineComment finds the start of a -- comment outside quotes.
func indexLineComment(line string) int {
	i := 0
	for i < len(line) {
		c := line[i]
		if c == '\'' || c == '"' || c == '`' {
			i = skipQuoted(line, i)
			continue
		}
		if c == '-' && i+1 < len(line) && line[i+1] == '-' {
			return i
		}
		i++
	}
	return -1
}
