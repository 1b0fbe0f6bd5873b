package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coalescePage = `# COALESCE

COALESCE returns the first non-NULL argument.

## Sample Data

| id | nickname | name |
|----|----------|------|
| 1  | NULL     | Ana  |
| 2  | Ben      | Ben  |

## Query Example

` + "```sql" + `
SELECT id, COALESCE(nickname, name) AS display_name
FROM users;
` + "```" + `

## Output

| id | display_name |
|----|--------------|
| 1  | Ana          |
| 2  | Ben          |
`

func TestParse(t *testing.T) {
	d, err := Parse("coalesce.md", coalescePage)
	require.NoError(t, err)

	assert.Equal(t, "COALESCE", d.Title)
	require.Len(t, d.Sections, 4)

	assert.Equal(t, KindProse, d.Sections[0].Kind)
	assert.Equal(t, "Sample Data", d.Sections[1].Heading)
	assert.Equal(t, KindSampleData, d.Sections[1].Kind)
	assert.Equal(t, KindQuery, d.Sections[2].Kind)
	assert.Equal(t, KindOutput, d.Sections[3].Kind)

	require.Len(t, d.Sections[2].Queries, 1)
	assert.Contains(t, d.Sections[2].Queries[0].SQL, "COALESCE(nickname, name)")

	require.Len(t, d.Sections[3].Tables, 1)
	assert.Equal(t, []string{"id", "display_name"}, d.Sections[3].Tables[0].Columns)
}

func TestParse_UnterminatedCodeBlock(t *testing.T) {
	content := "# LIMIT\n\n## Query\n\n```sql\nSELECT a FROM t\n"

	_, err := Parse("limit.md", content)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "unterminated")
	assert.Equal(t, 5, pe.Line)
}

func TestParse_MalformedTable(t *testing.T) {
	content := "# HAVING\n\n## Output\n\n| a | b |\n| 1 | 2 | 3 |\n"

	_, err := Parse("having.md", content)
	var tfe *TableFormatError
	require.ErrorAs(t, err, &tfe)
}

func TestParse_Frontmatter(t *testing.T) {
	content := `---
title: GROUP BY
description: Aggregate rows into groups.
tags: [aggregation]
---

Some prose.
`
	d, err := Parse("group-by.md", content)
	require.NoError(t, err)

	require.NotNil(t, d.Meta)
	assert.Equal(t, "GROUP BY", d.Title)
	assert.Equal(t, "Aggregate rows into groups.", d.Meta.Description)
	assert.Equal(t, []string{"aggregation"}, d.Meta.Tags)
}

func TestParse_FrontmatterUnknownField(t *testing.T) {
	content := "---\ntitle: X\nbogus: field\n---\n"

	_, err := Parse("x.md", content)
	var ufe *UnknownFieldError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "bogus", ufe.Field)
}

func TestParse_TitleFallsBackToFilename(t *testing.T) {
	d, err := Parse("docs/inner-join.md", "Some prose without a heading.\n")
	require.NoError(t, err)
	assert.Equal(t, "inner-join", d.Title)
}

func TestParse_TableLineNumbers(t *testing.T) {
	content := "# T\n\n## Output\n\n| a |\n|---|\n| 1 |\n"

	d, err := Parse("t.md", content)
	require.NoError(t, err)

	tables := d.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, 5, tables[0].Line)
}

func TestParse_NonSQLFenceIgnored(t *testing.T) {
	content := "# T\n\n## Example\n\n```text\nnot sql\n```\n\n```sql\nSELECT 1;\n```\n"

	d, err := Parse("t.md", content)
	require.NoError(t, err)

	queries := d.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, "SELECT 1;", queries[0].SQL)
}

func TestKindForHeading(t *testing.T) {
	tests := []struct {
		heading string
		want    SectionKind
	}{
		{"Output", KindOutput},
		{"Example Output", KindOutput},
		{"Result", KindOutput},
		{"Sample Data", KindSampleData},
		{"Before", KindSampleData},
		{"After UPDATE", KindSampleData},
		{"Query Example", KindQuery},
		{"Syntax", KindQuery},
		{"Notes", KindProse},
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			assert.Equal(t, tt.want, kindForHeading(tt.heading))
		})
	}
}
