// Package commands implements the sqldoc subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sqldoc-dev/sqldoc/internal/cli/config"
	"github.com/sqldoc-dev/sqldoc/internal/cli/output"
	"github.com/sqldoc-dev/sqldoc/internal/state"
)

// CommandContext bundles what a subcommand needs from the CLI setup.
type CommandContext struct {
	Cfg      *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
	// Store is nil when the command was created without state.
	Store state.Store
}

// NewCommandContext builds a context with an opened state store. The
// returned cleanup closes the store and must be deferred.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	stateDir := filepath.Dir(cmdCtx.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cmdCtx.Cfg.StatePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	cmdCtx.Store = store
	cleanup := func() { _ = store.Close() }
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore builds a context for commands that do
// not touch persisted state.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{
			DocsDir:      config.DefaultDocsDir,
			StatePath:    config.DefaultStateFile,
			OutputFormat: config.DefaultOutput,
		}
	}
	return &CommandContext{
		Cfg:      cfg,
		Renderer: output.FromContext(cmd.Context()),
		Logger:   config.GetLogger(cmd.Context()),
	}
}
