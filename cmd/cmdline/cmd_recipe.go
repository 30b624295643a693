package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"cmdmacro/cmd/cmdline/recipe"
	"cmdmacro/pkg/cmdline"
)

func newRecipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "List, show and run named command lines",
		Long: `Recipes are named command lines with default bindings, read from
*.yml, *.yaml, *.toml, *.json and *.jsonc files below the recipe
directories (default: <config-dir>/recipes).

  recipes:
    - name: install
      description: install packages
      line: echo Installing (-p packages ?)
      vars:
        packages: [cowsay, emacs]`,
	}
	cmd.AddCommand(
		newRecipeListCmd(a),
		newRecipeShowCmd(a),
		newRecipeRunCmd(a),
		newRecipePickCmd(a),
	)
	return cmd
}

func (a *app) recipes() (*recipe.Registry, error) {
	return loadRecipes(a.fs, a.cfg, a.recipeDirs, a.files)
}

// completeRecipes provides shell completion of recipe names.
func (a *app) completeRecipes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := a.setup(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	reg, err := a.recipes()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, name := range reg.Names() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newRecipeListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.recipes()
			if err != nil {
				return err
			}
			if reg.Len() == 0 {
				dirs, _ := a.cfg.recipeSources(a.recipeDirs, a.files)
				fmt.Fprintf(a.stderr, "no recipes found in %s\n", strings.Join(dirs, ", "))
				return nil
			}
			width := len("NAME")
			for _, name := range reg.Names() {
				width = max(width, len(name))
			}
			fmt.Fprintf(a.stdout, "%-*s  %s\n", width, "NAME", "DESCRIPTION")
			for _, r := range reg.All() {
				fmt.Fprintf(a.stdout, "%-*s  %s\n", width, r.Name, r.Description)
			}
			return nil
		},
	}
}

func newRecipeShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "show NAME",
		Short:             "Show a recipe and its production plan",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.recipes()
			if err != nil {
				return err
			}
			r, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			plan, err := r.Plan()
			if err != nil {
				return err
			}
			writeRecipe(a, r, plan)
			return nil
		},
	}
}

func writeRecipe(a *app, r recipe.Recipe, plan *cmdline.Plan) {
	w := a.stdout
	fmt.Fprintf(w, "name:        %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(w, "description: %s\n", r.Description)
	}
	fmt.Fprintf(w, "source:      %s\n", r.Source)
	fmt.Fprintf(w, "line:        %s\n", r.Line)
	if len(r.Vars) > 0 {
		fmt.Fprintln(w, "vars:")
		vars := cmdline.Vars(r.Vars)
		for _, k := range sortedKeys(vars) {
			fmt.Fprintf(w, "  %s=%s\n", k, formatVar(vars[k]))
		}
	}
	fmt.Fprintln(w, "plan:")
	var b strings.Builder
	writePlanPlain(&b, plan)
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func newRecipeRunCmd(a *app) *cobra.Command {
	var b bindingFlags
	var opts runOpts

	cmd := &cobra.Command{
		Use:               "run NAME",
		Short:             "Run a recipe, overriding its bindings with --set, --list and --none",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.recipes()
			if err != nil {
				return err
			}
			r, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			return a.runRecipe(cmd.Context(), r, &b, opts)
		},
	}
	b.register(cmd.Flags())
	opts.register(cmd.Flags())
	return cmd
}

func newRecipePickCmd(a *app) *cobra.Command {
	var b bindingFlags
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a recipe with a fuzzy finder and run it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.recipes()
			if err != nil {
				return err
			}
			r, err := pickRecipe(reg.All())
			if err != nil {
				return err
			}
			return a.runRecipe(cmd.Context(), r, &b, opts)
		},
	}
	b.register(cmd.Flags())
	opts.register(cmd.Flags())
	return cmd
}

// pickRecipe opens a terminal fuzzy finder over the recipes, previewing the
// selected recipe's line.
func pickRecipe(rs []recipe.Recipe) (recipe.Recipe, error) {
	if len(rs) == 0 {
		return recipe.Recipe{}, errors.New("no recipes to pick from")
	}
	idx, err := fuzzyfinder.Find(
		rs,
		func(i int) string {
			return rs[i].Name
		},
		fuzzyfinder.WithPromptString("Select recipe: "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			return rs[i].Description + "\n\n" + rs[i].Line
		}),
	)
	if err != nil {
		return recipe.Recipe{}, err
	}
	return rs[idx], nil
}

// runRecipe binds the recipe defaults overlaid with flag bindings, prompts
// for anything still unbound and runs the result.
func (a *app) runRecipe(ctx context.Context, r recipe.Recipe, b *bindingFlags, opts runOpts) error {
	over, err := b.vars()
	if err != nil {
		return err
	}
	plan, err := r.Plan()
	if err != nil {
		return err
	}
	vars := r.Bind(over)
	if err := a.promptMissing(plan, vars); err != nil {
		return err
	}
	c, err := plan.Eval(cmdline.Scope{Vars: vars, Env: a.env})
	if err != nil {
		return fmt.Errorf("recipe %s: %w", r.Name, err)
	}
	return a.execute(ctx, "recipe "+r.Name, c, vars, opts)
}
