package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"cmdmacro/cmd/cmdline/recipe"
	"cmdmacro/pkg/output"
)

// appName is the single source of truth for the application name.
// Env var names and config paths are derived from it.
const appName = "cmdline"

var (
	envPrefix    = strings.ToUpper(appName)
	envConfigDir = envPrefix + "_CONFIG_DIR"
	envRecipes   = envPrefix + "_RECIPES"
)

// Config is the merged result of config.{yaml,toml,json}, CMDLINE_* env
// vars and flags.
type Config struct {
	Dir        string   `mapstructure:"-"`
	LogLevel   string   `mapstructure:"log_level"`
	Encoding   string   `mapstructure:"encoding"`
	RecipeDirs []string `mapstructure:"recipe_dirs"`
	Recipes    []string `mapstructure:"recipes"`
}

// resolveConfigDir returns the base config directory for the application.
// Priority: $CMDLINE_CONFIG_DIR > $XDG_CONFIG_HOME/cmdline > ~/.config/cmdline
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads the config file in dir, if any. Keys can be overridden
// by CMDLINE_<KEY> env vars and by flags bound to v.
func loadConfig(v *viper.Viper, dir string) (*Config, error) {
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("log_level", "warn")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("recipe_dirs", []string{filepath.Join(dir, "recipes")})
	v.SetDefault("recipes", []string{})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config %s: %w", dir, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", dir, err)
	}
	cfg.Dir = dir
	return &cfg, nil
}

func (c *Config) logLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c *Config) decoder() (output.Decoder, error) {
	if c.Encoding == "" {
		return output.Decoder{}, nil
	}
	return output.Lookup(c.Encoding)
}

// recipeSources returns the directories to scan and the explicit files to
// load. Order: config recipe_dirs, --recipe-dir; config recipes,
// $CMDLINE_RECIPES, --file.
func (c *Config) recipeSources(flagDirs, flagFiles []string) ([]string, []string) {
	dirs := append(append([]string(nil), c.RecipeDirs...), flagDirs...)
	files := append([]string(nil), c.Recipes...)
	files = append(files, splitColon(os.Getenv(envRecipes))...)
	files = append(files, flagFiles...)
	return dirs, files
}

// loadRecipes builds the recipe registry from every configured source.
func loadRecipes(fs afero.Fs, c *Config, flagDirs, flagFiles []string) (*recipe.Registry, error) {
	dirs, files := c.recipeSources(flagDirs, flagFiles)
	return recipe.NewLoader(fs).LoadDirs(dirs, files...)
}

// splitColon splits a colon-separated string, filtering empty parts.
func splitColon(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ":")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
