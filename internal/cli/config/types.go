// Package config loads sqldoc configuration from file, environment
// variables, and CLI flags via koanf.
package config

// Default configuration values.
const (
	DefaultDocsDir   = "docs"
	DefaultStateFile = ".sqldoc/state.db"
	DefaultOutput    = "auto"
)

// CheckSettings configures the consistency rules.
type CheckSettings struct {
	// Disabled lists rule IDs to skip, e.g. ["DC02"].
	Disabled []string `koanf:"disabled"`
	// Severity maps rule ID to a severity override
	// (error, warning, info, hint).
	Severity map[string]string `koanf:"severity"`
}

// Config is the resolved sqldoc configuration.
type Config struct {
	// ProjectRoot is the directory all relative paths resolve against.
	ProjectRoot string `koanf:"-"`

	// DocsDir is the directory of Markdown pages to check.
	DocsDir string `koanf:"docs_dir"`
	// StatePath is the SQLite state database path.
	StatePath string `koanf:"state_path"`
	// OutputFormat is one of auto, text, markdown, json.
	OutputFormat string `koanf:"output"`
	// Jobs bounds parallel document checking; 0 means sequential.
	Jobs    int  `koanf:"jobs"`
	Verbose bool `koanf:"verbose"`

	Check *CheckSettings `koanf:"check"`
}
