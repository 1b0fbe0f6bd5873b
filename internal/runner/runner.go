// Package runner discovers documentation pages, checks them, and
// records the outcome. Documents are independent, so they may be
// checked in parallel; results are reassembled in input order to keep
// the report deterministic.
package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sqldoc-dev/sqldoc/internal/check"
	"github.com/sqldoc-dev/sqldoc/internal/doc"
	"github.com/sqldoc-dev/sqldoc/internal/state"
)

// Options configures a check run.
type Options struct {
	// DocsDir is the directory of Markdown pages.
	DocsDir string
	// Jobs bounds parallel checking; values below 1 run sequentially.
	Jobs int
	// ChangedOnly skips files whose content hash matches the store.
	// Requires a Store.
	ChangedOnly bool
	// Config controls which rules run.
	Config *check.Config
	// Store persists run history and hashes; nil disables persistence.
	Store state.Store
	// Logger receives progress output; nil uses the default logger.
	Logger *slog.Logger
}

// Runner executes check runs.
type Runner struct {
	opts     Options
	analyzer *check.Analyzer
	logger   *slog.Logger
}

// New creates a runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		opts:     opts,
		analyzer: check.NewAnalyzer(opts.Config),
		logger:   logger,
	}
}

// fileEntry is one discovered page with its content loaded.
type fileEntry struct {
	// path is relative to DocsDir and identifies the document.
	path    string
	content string
	hash    string
}

// Run checks every page under DocsDir and returns per-document results
// in path order. A malformed document becomes a failed result; it never
// aborts the run.
func (r *Runner) Run(ctx context.Context) ([]check.Result, error) {
	entries, err := r.discover()
	if err != nil {
		return nil, err
	}

	if r.opts.ChangedOnly && r.opts.Store != nil {
		entries = r.filterUnchanged(entries)
	}

	results := make([]check.Result, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	limit := r.opts.Jobs
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := range entries {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = r.checkOne(&entries[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.persist(entries, results)
	return results, nil
}

// discover collects .md files under DocsDir in sorted order.
func (r *Runner) discover() ([]fileEntry, error) {
	info, err := os.Stat(r.opts.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("docs directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs path is not a directory: %s", r.opts.DocsDir)
	}

	var paths []string
	err = filepath.WalkDir(r.opts.DocsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != r.opts.DocsDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk docs directory: %w", err)
	}
	sort.Strings(paths)

	entries := make([]fileEntry, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		rel, err := filepath.Rel(r.opts.DocsDir, p)
		if err != nil {
			rel = p
		}
		sum := sha256.Sum256(content)
		entries = append(entries, fileEntry{
			path:    filepath.ToSlash(rel),
			content: string(content),
			hash:    hex.EncodeToString(sum[:]),
		})
	}
	return entries, nil
}

// filterUnchanged drops entries whose stored content hash matches.
func (r *Runner) filterUnchanged(entries []fileEntry) []fileEntry {
	kept := entries[:0]
	for _, e := range entries {
		stored, err := r.opts.Store.GetContentHash(e.path)
		if err != nil {
			r.logger.Warn("failed to read content hash", "path", e.path, "error", err)
			kept = append(kept, e)
			continue
		}
		if stored == e.hash {
			r.logger.Debug("skipping unchanged document", "path", e.path)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// checkOne parses and checks a single page. Structural failures map to
// the DP rule IDs so the report can name the malformed section.
func (r *Runner) checkOne(e *fileEntry) check.Result {
	res := check.Result{Path: e.path}

	d, err := doc.Parse(e.path, e.content)
	if err != nil {
		res.Diagnostics = []check.Diagnostic{structuralDiagnostic(err)}
		return res
	}

	res.Title = d.Title
	res.Diagnostics = r.analyzer.Analyze(d)
	return res
}

// structuralDiagnostic converts a parse failure into a diagnostic.
func structuralDiagnostic(err error) check.Diagnostic {
	diag := check.Diagnostic{
		RuleID:   check.RuleParseError,
		Severity: check.SeverityError,
		Message:  err.Error(),
	}
	switch e := err.(type) {
	case *doc.ParseError:
		diag.Line = e.Line
		diag.Message = e.Message
	case *doc.TableFormatError:
		diag.RuleID = check.RuleTableFormat
		diag.Line = e.Line
		diag.Message = e.Message
	}
	return diag
}

// persist records the run in the state store. Persistence failures are
// logged and never fail the check itself.
func (r *Runner) persist(entries []fileEntry, results []check.Result) {
	store := r.opts.Store
	if store == nil {
		return
	}

	run, err := store.CreateRun()
	if err != nil {
		r.logger.Warn("failed to record run", "error", err)
		return
	}

	failures := 0
	for i := range results {
		res := &results[i]
		errs, warns := 0, 0
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case check.SeverityError:
				errs++
			case check.SeverityWarning:
				warns++
			}
		}
		if res.Failed() {
			failures++
		}
		if err := store.SaveDocumentResult(&state.DocumentResult{
			RunID:       run.ID,
			Path:        res.Path,
			Passed:      !res.Failed(),
			Diagnostics: len(res.Diagnostics),
			Errors:      errs,
			Warnings:    warns,
		}); err != nil {
			r.logger.Warn("failed to save document result", "path", res.Path, "error", err)
		}
		if err := store.SetContentHash(entries[i].path, entries[i].hash); err != nil {
			r.logger.Warn("failed to save content hash", "path", entries[i].path, "error", err)
		}
	}

	status := state.RunStatusCompleted
	if failures > 0 {
		status = state.RunStatusFailed
	}
	if err := store.CompleteRun(run.ID, status, len(results), failures, ""); err != nil {
		r.logger.Warn("failed to complete run", "error", err)
	}
}
