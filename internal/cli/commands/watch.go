package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	_ "github.com/sqldoc-dev/sqldoc/internal/check/rules" // register built-in rules
	"github.com/sqldoc-dev/sqldoc/internal/report"
	"github.com/sqldoc-dev/sqldoc/internal/runner"
)

// debounceInterval coalesces editor save bursts into one re-check.
const debounceInterval = 300 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-check documentation on every change",
		Long: `Watch the docs directory and re-run the consistency check whenever
a Markdown page changes. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			docsDir := cmdCtx.Cfg.DocsDir
			if len(args) > 0 {
				docsDir = args[0]
			}

			run := runner.New(runner.Options{
				DocsDir: docsDir,
				Jobs:    cmdCtx.Cfg.Jobs,
				Config:  buildCheckConfig(cmdCtx.Cfg, &CheckOptions{}),
				Store:   cmdCtx.Store,
				Logger:  cmdCtx.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watchLoop(ctx, cmdCtx, run, docsDir)
		},
	}
	return cmd
}

func watchLoop(ctx context.Context, cmdCtx *CommandContext, run *runner.Runner, docsDir string) error {
	r := cmdCtx.Renderer

	// Initial check
	runOnce := func() {
		results, err := run.Run(ctx)
		if err != nil {
			r.Errorf("check failed: %v\n", err)
			return
		}
		if _, err := report.Render(r, results); err != nil {
			r.Errorf("render failed: %v\n", err)
		}
	}
	runOnce()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, docsDir); err != nil {
		return fmt.Errorf("failed to watch docs dir: %w", err)
	}

	cmdCtx.Logger.Info("watching for changes", "dir", docsDir)
	r.Println("Watching " + docsDir + " (Ctrl+C to stop)")

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event) {
				continue
			}
			// New directories must be added to the watch set
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDir(watcher, event.Name)
				}
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watcher error", "error", err)

		case <-rerun:
			r.Println("")
			runOnce()
		}
	}
}

// watchDir recursively adds a directory tree to the watcher, skipping
// hidden directories.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// isRelevant reports whether an event should trigger a re-check.
func isRelevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	// Directory events matter for the watch set; file events only for pages
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return true
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".md")
}
