package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"cmdmacro/pkg/cmdline"
)

var (
	styleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
	styleTableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newPlanCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "plan LINE...",
		Short: "Show how each token of a line is turned into arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := cmdline.ParsePlan(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if plain {
				writePlanPlain(a.stdout, plan)
				return nil
			}
			fmt.Fprintln(a.stdout, renderPlanTable(plan))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "plain text instead of a table")
	return cmd
}

func writePlanPlain(w io.Writer, plan *cmdline.Plan) {
	fmt.Fprintf(w, "%-8s %-9s %s\n", "program", plan.Program.Rule, plan.Program)
	for i, p := range plan.Args {
		fmt.Fprintf(w, "%-8d %-9s %s\n", i+1, p.Rule, p)
	}
	if refs := plan.Refs(); len(refs) > 0 {
		parts := make([]string, len(refs))
		for i, r := range refs {
			parts[i] = r.Name + " (" + r.Usage.String() + ")"
		}
		fmt.Fprintf(w, "refs: %s\n", strings.Join(parts, ", "))
	}
	if envs := plan.Envs(); len(envs) > 0 {
		fmt.Fprintf(w, "env: %s\n", strings.Join(envs, ", "))
	}
}

func planRow(label string, p cmdline.Production) []string {
	flag := ""
	if p.Rule == cmdline.RuleFlagged {
		flag = p.Flag.String()
	}
	return []string{label, p.Rule.String(), flag, p.Operand.String(), p.String()}
}

func renderPlanTable(plan *cmdline.Plan) string {
	rows := [][]string{planRow("program", plan.Program)}
	for i, p := range plan.Args {
		rows = append(rows, planRow(fmt.Sprint(i+1), p))
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleTableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		}).
		Headers("#", "RULE", "FLAG", "OPERAND", "TOKEN").
		Rows(rows...).
		Render()
}
