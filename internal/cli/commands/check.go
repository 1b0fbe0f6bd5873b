package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqldoc-dev/sqldoc/internal/check"
	_ "github.com/sqldoc-dev/sqldoc/internal/check/rules" // register built-in rules
	"github.com/sqldoc-dev/sqldoc/internal/cli/config"
	"github.com/sqldoc-dev/sqldoc/internal/cli/output"
	"github.com/sqldoc-dev/sqldoc/internal/report"
	"github.com/sqldoc-dev/sqldoc/internal/runner"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Path     string   // Docs directory override
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
	Rules    []string // Run only specific rules
	Changed  bool     // Only re-check documents whose content changed
	NoState  bool     // Skip the state database entirely
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check documentation pages for consistency",
		Long: `Parse every Markdown page under the docs directory and verify its
internal consistency: tables must be well formed, and each output
table's column count must match the selected expressions of the query
it illustrates.

This is a syntactic check; no SQL is executed.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the configured docs directory
  sqldoc check

  # Check a specific directory
  sqldoc check ./docs/joins

  # Output as JSON
  sqldoc check --format json

  # Disable the column-name hint rule
  sqldoc check --disable DC02

  # Only report errors (ignore warnings and hints)
  sqldoc check --severity error

  # Re-check only documents that changed since the last run
  sqldoc check --changed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVar(&opts.Changed, "changed", false, "Only check documents whose content changed")
	cmd.Flags().BoolVar(&opts.NoState, "no-state", false, "Do not record the run in the state database")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	var cmdCtx *CommandContext
	if opts.NoState {
		cmdCtx = NewCommandContextWithoutStore(cmd)
	} else {
		var cleanup func()
		var err error
		cmdCtx, cleanup, err = NewCommandContext(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	docsDir := cmdCtx.Cfg.DocsDir
	if opts.Path != "" {
		docsDir = opts.Path
	}

	run := runner.New(runner.Options{
		DocsDir:     docsDir,
		Jobs:        cmdCtx.Cfg.Jobs,
		ChangedOnly: opts.Changed,
		Config:      buildCheckConfig(cmdCtx.Cfg, opts),
		Store:       cmdCtx.Store,
		Logger:      cmdCtx.Logger,
	})

	results, err := run.Run(cmd.Context())
	if err != nil {
		return err
	}

	results = filterBySeverity(results, opts.Severity)

	hasFailures, err := report.Render(r, results)
	if err != nil {
		return err
	}
	if hasFailures {
		return fmt.Errorf("consistency issues found")
	}
	return nil
}

// buildCheckConfig merges project config and CLI flags. CLI overrides
// take precedence.
func buildCheckConfig(cfg *config.Config, opts *CheckOptions) *check.Config {
	checkCfg := check.NewConfig()

	if cfg != nil && cfg.Check != nil {
		for _, id := range cfg.Check.Disabled {
			checkCfg.Disable(strings.TrimSpace(id))
		}
		for id, sev := range cfg.Check.Severity {
			if s, ok := check.ParseSeverity(sev); ok {
				checkCfg.SetSeverity(id, s)
			}
		}
	}

	for _, id := range opts.Disable {
		checkCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule is given, disable everything else
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool)
		for _, id := range opts.Rules {
			enabled[strings.TrimSpace(id)] = true
		}
		for _, rule := range check.AllRules() {
			if !enabled[rule.ID] {
				checkCfg.Disable(rule.ID)
			}
		}
	}

	return checkCfg
}

// filterBySeverity drops diagnostics below the threshold. Documents
// stay in the result list so the summary still counts them.
func filterBySeverity(results []check.Result, severityThreshold string) []check.Result {
	threshold, ok := check.ParseSeverity(severityThreshold)
	if !ok {
		threshold = check.SeverityHint
	}

	filtered := make([]check.Result, 0, len(results))
	for _, res := range results {
		var diags []check.Diagnostic
		for _, d := range res.Diagnostics {
			if d.Severity <= threshold {
				diags = append(diags, d)
			}
		}
		res.Diagnostics = diags
		filtered = append(filtered, res)
	}
	return filtered
}
