package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldoc-dev/sqldoc/internal/cli/config"
	"github.com/sqldoc-dev/sqldoc/internal/report"
)

// runCommand executes the root command with captured output.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckCommand_JSON(t *testing.T) {
	stdout, _, err := runCommand(t,
		"check", "testdata/docs",
		"--config", "testdata/sqldoc.yaml",
		"--format", "json", "--no-state")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consistency issues found")

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 2, rep.Summary.Documents)
	assert.Equal(t, 1, rep.Summary.Passed)
	assert.Equal(t, 1, rep.Summary.Failed)

	require.Len(t, rep.Documents, 2)
	assert.Equal(t, "coalesce.md", rep.Documents[0].Path)
	assert.True(t, rep.Documents[0].Passed)
	assert.Equal(t, "having.md", rep.Documents[1].Path)
	require.NotEmpty(t, rep.Documents[1].Diagnostics)
	assert.Equal(t, "DC01", rep.Documents[1].Diagnostics[0].RuleID)
}

func TestCheckCommand_DisableRule(t *testing.T) {
	stdout, _, err := runCommand(t,
		"check", "testdata/docs",
		"--config", "testdata/sqldoc.yaml",
		"--format", "text", "--no-state",
		"--disable", "DC01")
	require.NoError(t, err)
	assert.Contains(t, stdout, "All 2 documents passed")
}

func TestCheckCommand_OnlyRule(t *testing.T) {
	// DC04 alone cannot fail the failing page
	_, _, err := runCommand(t,
		"check", "testdata/docs",
		"--config", "testdata/sqldoc.yaml",
		"--format", "json", "--no-state",
		"--rule", "DC04")
	require.NoError(t, err)
}

func TestCheckCommand_SeverityThreshold(t *testing.T) {
	// The orphan page only carries a warning; at --severity error it
	// reports nothing and passes.
	stdout, _, err := runCommand(t,
		"check", "testdata/warn",
		"--config", "testdata/sqldoc.yaml",
		"--format", "json", "--no-state",
		"--severity", "error")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 1, rep.Summary.Documents)
	assert.Equal(t, 0, rep.Summary.Warnings)
	assert.Empty(t, rep.Documents[0].Diagnostics)
}

func TestCheckCommand_EmptyDirectory(t *testing.T) {
	stdout, _, err := runCommand(t,
		"check", t.TempDir(),
		"--config", "testdata/sqldoc.yaml",
		"--format", "text", "--no-state")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nothing to check")
}

func TestCheckCommand_StateAndHistory(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.db")

	_, _, err := runCommand(t,
		"check", "testdata/docs",
		"--config", "testdata/sqldoc.yaml",
		"--format", "text",
		"--state", statePath)
	require.Error(t, err, "failing docs exit non-zero even with state")

	stdout, _, err := runCommand(t,
		"history",
		"--config", "testdata/sqldoc.yaml",
		"--state", statePath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "failed")
	assert.Contains(t, stdout, "(1 runs)")
}

func TestListCommand_JSON(t *testing.T) {
	stdout, _, err := runCommand(t,
		"list", "testdata/docs",
		"--config", "testdata/sqldoc.yaml",
		"--format", "json")
	require.NoError(t, err)

	var infos []struct {
		Path    string `json:"path"`
		Title   string `json:"title"`
		Queries int    `json:"queries"`
		Tables  int    `json:"tables"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "coalesce.md", infos[0].Path)
	assert.Equal(t, "COALESCE", infos[0].Title)
	assert.Equal(t, 1, infos[0].Queries)
	assert.Equal(t, 2, infos[0].Tables)
}

func TestRulesCommand_JSON(t *testing.T) {
	stdout, _, err := runCommand(t,
		"rules",
		"--config", "testdata/sqldoc.yaml",
		"--format", "json")
	require.NoError(t, err)

	var infos []struct {
		ID       string `json:"id"`
		Group    string `json:"group"`
		Severity string `json:"severity"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.NotEmpty(t, infos)

	ids := make(map[string]string)
	for _, info := range infos {
		ids[info.ID] = info.Severity
	}
	assert.Equal(t, "error", ids["DC01"])
	assert.Equal(t, "warning", ids["DC03"])
}

func TestRulesCommand_UnknownRule(t *testing.T) {
	_, _, err := runCommand(t,
		"rules", "ZZ99",
		"--config", "testdata/sqldoc.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCommand(t, "version", "--config", "testdata/sqldoc.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sqldoc v")
}
