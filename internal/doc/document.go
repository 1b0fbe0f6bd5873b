// Package doc parses SQL documentation pages into an in-memory model.
// A page is a Markdown file with a title, prose, fenced ```sql blocks,
// and illustrative result tables. Parsing is a pure transformation;
// nothing here touches a database.
package doc

// SectionKind classifies a section by its heading label.
type SectionKind int

// Section kinds inferred from headings.
const (
	// KindProse is explanatory text with no checkable content.
	KindProse SectionKind = iota
	// KindQuery holds one or more SQL example blocks.
	KindQuery
	// KindSampleData holds input tables the examples operate on.
	KindSampleData
	// KindOutput holds tables simulating what a query would return.
	KindOutput
)

// String returns the lowercase label for the section kind.
func (k SectionKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindSampleData:
		return "sample-data"
	case KindOutput:
		return "output"
	default:
		return "prose"
	}
}

// QueryBlock is a fenced ```sql block.
type QueryBlock struct {
	// SQL is the block content with the fences stripped.
	SQL string
	// Line is the 1-based line of the opening fence.
	Line int
}

// Section is a labeled sub-part of a document. Content before the first
// sub-heading lives in an implicit leading section.
type Section struct {
	// Heading is the heading text without the leading hashes.
	Heading string
	// Kind is inferred from the heading label.
	Kind SectionKind
	// Line is the 1-based line of the heading.
	Line int
	// Queries are the SQL blocks in this section, in order.
	Queries []QueryBlock
	// Tables are the Markdown tables in this section, in order.
	Tables []Table
}

// Document is one parsed documentation page. Immutable once loaded;
// the lifecycle is parse once, check, discard.
type Document struct {
	// Path identifies the document (file path or synthetic name).
	Path string
	// Title is the frontmatter title or the first H1, in that order.
	Title string
	// Meta is the parsed frontmatter, nil when absent.
	Meta *Frontmatter
	// Sections in source order.
	Sections []Section
}

// Queries returns every SQL block in the document in source order.
func (d *Document) Queries() []QueryBlock {
	var out []QueryBlock
	for _, s := range d.Sections {
		out = append(out, s.Queries...)
	}
	return out
}

// Tables returns every table in the document in source order.
func (d *Document) Tables() []Table {
	var out []Table
	for _, s := range d.Sections {
		out = append(out, s.Tables...)
	}
	return out
}
