package main

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"cmdmacro/cmd/cmdline/recipe"
	"cmdmacro/pkg/cmdline"
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	stylePreview = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1).
			MarginLeft(1)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

func newBrowseCmd(a *app) *cobra.Command {
	var b bindingFlags
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse recipes with their resolved command and run one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.recipes()
			if err != nil {
				return err
			}
			over, err := b.vars()
			if err != nil {
				return err
			}
			m := newBrowseModel(reg.All(), over, a.env)
			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			r, ok := final.(browseModel).selected()
			if !ok {
				return nil
			}
			return a.runRecipe(cmd.Context(), r, &b, opts)
		},
	}
	b.register(cmd.Flags())
	opts.register(cmd.Flags())
	return cmd
}

type browseModel struct {
	table   table.Model
	recipes []recipe.Recipe
	over    cmdline.Vars
	env     cmdline.Env
	chosen  int
}

func newBrowseModel(recipes []recipe.Recipe, over cmdline.Vars, env cmdline.Env) browseModel {
	columns := []table.Column{
		{Title: "NAME", Width: 20},
		{Title: "DESCRIPTION", Width: 32},
		{Title: "LINE", Width: 48},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(recipeRows(recipes)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return browseModel{
		table:   t,
		recipes: recipes,
		over:    over,
		env:     env,
		chosen:  -1,
	}
}

func recipeRows(recipes []recipe.Recipe) []table.Row {
	rows := make([]table.Row, len(recipes))
	for i, r := range recipes {
		rows[i] = table.Row{r.Name, r.Description, r.Line}
	}
	return rows
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if idx := m.table.Cursor(); idx >= 0 && idx < len(m.recipes) {
				m.chosen = idx
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// preview resolves the recipe under the cursor without prompting. Unbound
// names show up as an error.
func (m browseModel) preview() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.recipes) {
		return ""
	}
	c, err := m.recipes[idx].Build(m.over, m.env)
	if err != nil {
		return styleErr.Render(err.Error())
	}
	return stylePreview.Render(c.String())
}

func (m browseModel) selected() (recipe.Recipe, bool) {
	if m.chosen < 0 {
		return recipe.Recipe{}, false
	}
	return m.recipes[m.chosen], true
}

func (m browseModel) View() string {
	title := styleTitle.Render(appName + "  recipes")
	tableView := styleBase.Render(m.table.View())
	if len(m.recipes) == 0 {
		return title + "\n" + tableView + "\n" + styleHelp.Render("No recipes.  q  quit")
	}
	help := styleHelp.Render("↑/↓  navigate    enter  run    q  quit")
	return title + "\n" + tableView + "\n" + m.preview() + "\n" + help
}
