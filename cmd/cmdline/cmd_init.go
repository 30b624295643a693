package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

//go:embed init_config.yaml
var initConfigYAML []byte

//go:embed init_recipes.yml
var initRecipesYAML []byte

const initRecipesHeader = `# ` + appName + ` recipes
# Run one with:   ` + appName + ` recipe run <name>
# Preview it:     ` + appName + ` recipe run --dry-run <name>
# Override vars:  ` + appName + ` recipe run --set name=Steve hello

`

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialise the config directory with a config file and example recipes",
		Long: "Create the " + appName + " config directory and populate it with starter files.\n\n" +
			"Files created:\n" +
			"  <config>/config.yaml\n" +
			"  <config>/recipes/examples.yml\n\n" +
			"The config directory is --config-dir, $" + envConfigDir + ",\n" +
			"$XDG_CONFIG_HOME/" + appName + " or ~/.config/" + appName + ", in that order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Dir
			recipesDir := filepath.Join(dir, "recipes")
			if err := a.fs.MkdirAll(recipesDir, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", recipesDir, err)
			}

			configFile := filepath.Join(dir, "config.yaml")
			recipesFile := filepath.Join(recipesDir, "examples.yml")
			if err := writeInitFile(a.fs, configFile, "", initConfigYAML, force); err != nil {
				return err
			}
			if err := writeInitFile(a.fs, recipesFile, initRecipesHeader, initRecipesYAML, force); err != nil {
				return err
			}

			fmt.Fprintf(a.stderr, "initialised %s\n", dir)
			fmt.Fprintf(a.stderr, "  %s\n", configFile)
			fmt.Fprintf(a.stderr, "  %s\n", recipesFile)
			fmt.Fprintf(a.stderr, "\nRun `%s recipe list` to see the recipes.\n", appName)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func newExampleCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example recipe file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				fmt.Fprint(a.stdout, initRecipesHeader)
				_, err := a.stdout.Write(initRecipesYAML)
				return err
			}
			if err := writeInitFile(a.fs, out, initRecipesHeader, initRecipesYAML, true); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func writeInitFile(fs afero.Fs, path, header string, content []byte, force bool) error {
	if !force {
		if _, err := fs.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if header != "" {
		fmt.Fprint(f, header)
	}
	_, err = f.Write(content)
	return err
}
