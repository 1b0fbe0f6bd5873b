package commands

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqldoc-dev/sqldoc/internal/cli/output"
	"github.com/sqldoc-dev/sqldoc/internal/doc"
)

// documentInfo summarizes one parsed page for listing.
type documentInfo struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
	Queries  int    `json:"queries"`
	Tables   int    `json:"tables"`
	Error    string `json:"error,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List documentation pages and their contents",
		Long: `Parse every page under the docs directory and list its title plus
section, query, and table counts. Pages that fail to parse are listed
with the parse error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutStore(cmd)
			r := cmdCtx.Renderer
			if format != "" {
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
			}

			docsDir := cmdCtx.Cfg.DocsDir
			if len(args) > 0 {
				docsDir = args[0]
			}

			infos, err := collectDocuments(docsDir)
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(infos)
			}
			renderDocumentList(r, infos)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

// collectDocuments parses every .md file under dir in sorted order.
func collectDocuments(dir string) ([]documentInfo, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
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

	infos := make([]documentInfo, 0, len(paths))
	for _, p := range paths {
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			rel = p
		}
		info := documentInfo{Path: filepath.ToSlash(rel)}

		d, err := doc.ParseFile(p)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Title = d.Title
			info.Sections = len(d.Sections)
			info.Queries = len(d.Queries())
			info.Tables = len(d.Tables())
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func renderDocumentList(r *output.Renderer, infos []documentInfo) {
	if len(infos) == 0 {
		r.Success("No documents found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Document", "Title", "Sections", "Queries", "Tables"})

	for _, info := range infos {
		if info.Error != "" {
			t.AppendRow(table.Row{info.Path, r.Styles().Error.Render("parse error"), "-", "-", "-"})
			continue
		}
		t.AppendRow(table.Row{info.Path, info.Title, info.Sections, info.Queries, info.Tables})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	r.Printf("(%d documents)\n", len(infos))
}
