package commands

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqldoc-dev/sqldoc/internal/cli/output"
	"github.com/sqldoc-dev/sqldoc/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent check runs",
		Long: `List recent check runs recorded in the state database, newest
first, with their status and failure counts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			r := cmdCtx.Renderer
			if format != "" {
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
			}

			runs, err := cmdCtx.Store.ListRuns(limit)
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(runs)
			}
			renderRuns(r, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Max runs to show")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

func renderRuns(r *output.Renderer, runs []*state.Run) {
	if len(runs) == 0 {
		r.Success("No check runs recorded yet")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Status", "Started", "Duration", "Documents", "Failures"})

	for _, run := range runs {
		duration := "-"
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			shortID(run.ID),
			string(run.Status),
			run.StartedAt.Format(time.RFC3339),
			duration,
			run.Documents,
			run.Failures,
		})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	r.Printf("(%d runs)\n", len(runs))
}

// shortID truncates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
