package doc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseError reports malformed page structure, e.g. an unterminated
// code block.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
}

// ParseFile reads and parses a single documentation page.
func ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(path, string(content))
}

// Parse parses page content into a Document. It fails with a ParseError
// or TableFormatError on the first structural problem; a later
// consistency pass works on the parsed result. Parse has no side effects.
func Parse(path, content string) (*Document, error) {
	fm, body, offset, err := extractFrontmatter(content)
	if err != nil {
		return nil, err
	}

	d := &Document{Path: path, Meta: fm}
	if fm != nil && fm.Title != "" {
		d.Title = fm.Title
	}

	// Implicit leading section for content before the first heading.
	current := Section{Line: offset + 1}
	flush := func() {
		if current.Heading != "" || len(current.Queries) > 0 || len(current.Tables) > 0 {
			d.Sections = append(d.Sections, current)
		}
	}

	lines := strings.Split(body, "\n")
	var (
		inCode    bool
		codeLang  string
		codeStart int
		codeBuf   []string
	)

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := offset + i + 1

		if inCode {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				if strings.EqualFold(codeLang, "sql") || codeLang == "" {
					current.Queries = append(current.Queries, QueryBlock{
						SQL:  strings.Join(codeBuf, "\n"),
						Line: codeStart,
					})
				}
				inCode = false
				codeBuf = nil
			} else {
				codeBuf = append(codeBuf, line)
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			inCode = true
			codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			codeStart = lineNo

		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if strings.HasPrefix(trimmed, "# ") && d.Title == "" {
				d.Title = heading
			}
			flush()
			current = Section{
				Heading: heading,
				Kind:    kindForHeading(heading),
				Line:    lineNo,
			}

		case IsTableRow(line):
			start := i
			for i+1 < len(lines) && IsTableRow(lines[i+1]) {
				i++
			}
			t, err := ParseTable(lines[start:i+1], offset+start+1)
			if err != nil {
				return nil, err
			}
			current.Tables = append(current.Tables, *t)
		}
	}

	if inCode {
		return nil, &ParseError{Path: path, Line: codeStart, Message: "unterminated code block"}
	}

	flush()
	if d.Title == "" {
		d.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// kindForHeading infers a section kind from its heading label.
// Output checks run first so "Example Output" classifies as output.
func kindForHeading(heading string) SectionKind {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "output"), strings.Contains(h, "result"):
		return KindOutput
	case strings.Contains(h, "sample"), strings.Contains(h, "data"),
		strings.Contains(h, "before"), strings.Contains(h, "after"):
		return KindSampleData
	case strings.Contains(h, "quer"), strings.Contains(h, "example"),
		strings.Contains(h, "syntax"), strings.Contains(h, "usage"):
		return KindQuery
	default:
		return KindProse
	}
}
