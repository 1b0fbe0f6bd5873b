package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqldoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	// Point at an empty config so the upward search cannot find a
	// stray sqldoc.yaml above the test directory.
	cfgFile := writeConfig(t, "")

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultDocsDir), cfg.DocsDir)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, 0, cfg.Jobs)
	assert.False(t, cfg.Verbose)
	assert.Nil(t, cfg.Check)
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfgFile := writeConfig(t, `docs_dir: pages
output: json
jobs: 4
check:
  disabled: [DC02]
  severity:
    DC03: error
`)

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "pages"), cfg.DocsDir)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.Jobs)
	require.NotNil(t, cfg.Check)
	assert.Equal(t, []string{"DC02"}, cfg.Check.Disabled)
	assert.Equal(t, "error", cfg.Check.Severity["DC03"])
	assert.Equal(t, cfgFile, GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfgFile := writeConfig(t, "output: text\n")
	t.Setenv("SQLDOC_OUTPUT", "markdown")

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfgFile := writeConfig(t, "output: text\n")
	t.Setenv("SQLDOC_OUTPUT", "markdown")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", DefaultOutput, "")
	require.NoError(t, flags.Parse([]string{"--output", "json"}))

	cfg, err := LoadConfig(cfgFile, flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_UnchangedFlagIsIgnored(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfgFile := writeConfig(t, "output: json\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", DefaultOutput, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig(cfgFile, flags)
	require.NoError(t, err)
	// The flag default must not shadow the file value
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_StateFlagMapsToStatePath(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfgFile := writeConfig(t, "")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", DefaultStateFile, "")
	require.NoError(t, flags.Parse([]string{"--state", "/tmp/other.db"}))

	cfg, err := LoadConfig(cfgFile, flags)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.StatePath)
}

func TestLoadConfig_ProjectRootFromConfigDir(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfgFile := writeConfig(t, "docs_dir: docs\n")

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(cfgFile), cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(filepath.Dir(cfgFile), "docs"), cfg.DocsDir)
}

func TestLoadConfig_AbsolutePathsPassThrough(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	docs := t.TempDir()
	cfgFile := writeConfig(t, "docs_dir: "+docs+"\n")

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)
	assert.Equal(t, docs, cfg.DocsDir)
}

func TestResolvePathRelativeTo(t *testing.T) {
	assert.Equal(t, "", resolvePathRelativeTo("", "/root"))
	assert.Equal(t, "/abs/path", resolvePathRelativeTo("/abs/path", "/root"))
	assert.Equal(t, filepath.Join("/root", "docs"), resolvePathRelativeTo("docs", "/root"))
}
