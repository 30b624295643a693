package recipe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// DefaultPatterns selects recipe files below a recipe directory.
var DefaultPatterns = []string{"**/*.{yml,yaml,toml,json,jsonc}"}

// Loader reads recipe files from a filesystem.
type Loader struct {
	Fs       afero.Fs
	Patterns []string
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{Fs: fs, Patterns: DefaultPatterns}
}

// Discover returns the recipe files below dirs, directory by directory in
// lexical order. Missing directories are skipped.
func (l *Loader) Discover(dirs ...string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		ok, err := afero.DirExists(l.Fs, dir)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", dir, err)
		}
		if !ok {
			continue
		}
		err = afero.Walk(l.Fs, dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			if l.match(filepath.ToSlash(rel)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", dir, err)
		}
	}
	return files, nil
}

func (l *Loader) match(rel string) bool {
	for _, p := range l.Patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// LoadFile reads and validates the recipes in one file.
func (l *Loader) LoadFile(path string) ([]Recipe, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("recipe file %s: %w", path, err)
	}
	recipes, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("recipe file %s: %w", path, err)
	}
	for i := range recipes {
		recipes[i].Source = path
		if err := recipes[i].Validate(); err != nil {
			return nil, fmt.Errorf("recipe file %s: %w", path, err)
		}
	}
	return recipes, nil
}

// Load reads files in order into a new registry.
func (l *Loader) Load(files ...string) (*Registry, error) {
	reg := NewRegistry()
	for _, f := range files {
		recipes, err := l.LoadFile(f)
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			if err := reg.Register(r); err != nil {
				return nil, fmt.Errorf("recipe file %s: %w", f, err)
			}
		}
	}
	return reg, nil
}

// LoadDirs discovers and loads every recipe file below dirs, followed by
// the explicitly named files.
func (l *Loader) LoadDirs(dirs []string, files ...string) (*Registry, error) {
	found, err := l.Discover(dirs...)
	if err != nil {
		return nil, err
	}
	return l.Load(append(found, files...)...)
}
