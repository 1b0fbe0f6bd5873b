package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldoc-dev/sqldoc/internal/check"
	_ "github.com/sqldoc-dev/sqldoc/internal/check/rules"
	"github.com/sqldoc-dev/sqldoc/internal/state"
	"github.com/sqldoc-dev/sqldoc/internal/testutil"
)

const passingPage = `# COALESCE

## Query Example

` + "```sql" + `
SELECT id, COALESCE(nickname, name) AS display_name
FROM users;
` + "```" + `

## Output

| id | display_name |
|----|--------------|
| 1  | Ana          |
`

const failingPage = `# HAVING

## Query Example

` + "```sql" + `
SELECT department, COUNT(*) AS headcount
FROM employees
GROUP BY department;
` + "```" + `

## Output

| department | headcount | avg_salary |
|------------|-----------|------------|
| Sales      | 12        | 58000      |
`

const malformedPage = `# LIMIT

## Output

| a | b |
|---|---|
| 1 | 2 | 3 |
`

func writeDocs(t *testing.T, pages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range pages {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func memStore(t *testing.T) state.Store {
	t.Helper()
	s := state.NewSQLiteStore()
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRun(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"coalesce.md": passingPage,
		"having.md":   failingPage,
	})

	r := New(Options{DocsDir: dir, Logger: testutil.NewTestLogger(t)})
	results, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "coalesce.md", results[0].Path)
	assert.False(t, results[0].Failed())
	assert.Equal(t, "having.md", results[1].Path)
	assert.True(t, results[1].Failed())
}

func TestRun_PathOrderIsStable(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"z-union.md":        passingPage,
		"a-coalesce.md":     passingPage,
		"nested/m-joins.md": passingPage,
	})

	r := New(Options{DocsDir: dir, Jobs: 4, Logger: testutil.NewTestLogger(t)})
	results, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "a-coalesce.md", results[0].Path)
	assert.Equal(t, "nested/m-joins.md", results[1].Path)
	assert.Equal(t, "z-union.md", results[2].Path)
}

func TestRun_MalformedDocumentDoesNotAbort(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"broken.md": malformedPage,
		"good.md":   passingPage,
	})

	r := New(Options{DocsDir: dir, Logger: testutil.NewTestLogger(t)})
	results, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.True(t, results[0].Failed())
	require.Len(t, results[0].Diagnostics, 1)
	assert.Equal(t, check.RuleTableFormat, results[0].Diagnostics[0].RuleID)
	assert.Equal(t, 7, results[0].Diagnostics[0].Line)
	assert.False(t, results[1].Failed())
}

func TestRun_EmptyDirectoryPasses(t *testing.T) {
	dir := t.TempDir()

	r := New(Options{DocsDir: dir, Logger: testutil.NewTestLogger(t)})
	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_MissingDirectory(t *testing.T) {
	r := New(Options{
		DocsDir: filepath.Join(t.TempDir(), "does-not-exist"),
		Logger:  testutil.NewTestLogger(t),
	})

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestRun_IgnoresNonMarkdownAndHiddenDirs(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"page.md":          passingPage,
		"notes.txt":        "not a page",
		".drafts/wip.md":   failingPage,
		"schema/tables.md": passingPage,
	})

	r := New(Options{DocsDir: dir, Logger: testutil.NewTestLogger(t)})
	results, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "page.md", results[0].Path)
	assert.Equal(t, "schema/tables.md", results[1].Path)
}

func TestRun_Idempotent(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"coalesce.md": passingPage,
		"having.md":   failingPage,
	})
	r := New(Options{DocsDir: dir, Logger: testutil.NewTestLogger(t)})

	first, err := r.Run(context.Background())
	require.NoError(t, err)
	second, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_PersistsRunHistory(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"coalesce.md": passingPage,
		"having.md":   failingPage,
	})
	store := memStore(t)

	r := New(Options{DocsDir: dir, Store: store, Logger: testutil.NewTestLogger(t)})
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusFailed, runs[0].Status)
	assert.Equal(t, 2, runs[0].Documents)
	assert.Equal(t, 1, runs[0].Failures)

	docs, err := store.ListDocumentResults(runs[0].ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.True(t, docs[0].Passed)
	assert.False(t, docs[1].Passed)
	assert.Equal(t, 1, docs[1].Errors)
}

func TestRun_ChangedOnly(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"coalesce.md": passingPage,
		"having.md":   failingPage,
	})
	store := memStore(t)
	r := New(Options{
		DocsDir:     dir,
		Store:       store,
		ChangedOnly: true,
		Logger:      testutil.NewTestLogger(t),
	})

	first, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Nothing changed, so the second run checks nothing
	second, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)

	// Touching one file brings only that file back
	require.NoError(t, os.WriteFile(filepath.Join(dir, "having.md"), []byte(passingPage), 0o644))
	third, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, "having.md", third[0].Path)
	assert.False(t, third[0].Failed())
}

func TestRun_DisabledRuleViaConfig(t *testing.T) {
	dir := writeDocs(t, map[string]string{"having.md": failingPage})

	cfg := check.NewConfig()
	cfg.Disable("DC01")

	r := New(Options{DocsDir: dir, Config: cfg, Logger: testutil.NewTestLogger(t)})
	results, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.False(t, results[0].Failed())
}
