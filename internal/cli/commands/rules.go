package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqldoc-dev/sqldoc/internal/check"
	_ "github.com/sqldoc-dev/sqldoc/internal/check/rules" // register built-in rules
	"github.com/sqldoc-dev/sqldoc/internal/cli/output"
)

// ruleInfo is the serializable form of a rule definition.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var (
		group  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available consistency rules",
		Long: `List the registered consistency rules with their group and default
severity. Rules can be disabled or have their severity overridden in
sqldoc.yaml or with check --disable.`,
		Example: `  # List all rules
  sqldoc rules

  # Show a single rule
  sqldoc rules DC01

  # List rules in the consistency group
  sqldoc rules --group consistency`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutStore(cmd)
			r := cmdCtx.Renderer
			if format != "" {
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
			}

			if len(args) > 0 {
				return showRule(r, args[0])
			}
			return listRules(r, group)
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

func listRules(r *output.Renderer, group string) error {
	var infos []ruleInfo
	for _, def := range check.AllRules() {
		if group != "" && def.Group != group {
			continue
		}
		infos = append(infos, ruleInfo{
			ID:          def.ID,
			Name:        def.Name,
			Group:       def.Group,
			Severity:    def.Severity.String(),
			Description: def.Description,
		})
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeMarkdown:
		r.Println("| ID | Name | Group | Severity | Description |")
		r.Println("| --- | --- | --- | --- | --- |")
		for _, info := range infos {
			r.Printf("| %s | %s | %s | %s | %s |\n",
				info.ID, info.Name, info.Group, info.Severity, info.Description)
		}
		return nil
	default:
		for _, info := range infos {
			r.Printf("%s  %s  %s\n",
				r.Styles().Bold.Render(info.ID),
				r.Styles().Muted.Render(fmt.Sprintf("%-8s", info.Severity)),
				info.Name,
			)
			r.Printf("      %s\n", info.Description)
		}
		r.Printf("\n%d rules\n", len(infos))
		return nil
	}
}

func showRule(r *output.Renderer, id string) error {
	def, ok := check.GetRule(id)
	if !ok {
		return fmt.Errorf("unknown rule: %s", id)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ruleInfo{
			ID:          def.ID,
			Name:        def.Name,
			Group:       def.Group,
			Severity:    def.Severity.String(),
			Description: def.Description,
		})
	}

	r.Println(r.Styles().Bold.Render(def.ID + " " + def.Name))
	r.Printf("Group:    %s\n", def.Group)
	r.Printf("Severity: %s\n", def.Severity)
	r.Printf("\n%s\n", def.Description)
	return nil
}
