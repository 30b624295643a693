package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"cmdmacro/pkg/cmdline"
)

// Recipe is a named command line with default bindings for the names it
// references.
type Recipe struct {
	Name        string         `yaml:"name" json:"name" toml:"name" validate:"required,recipename"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty" toml:"description"`
	Line        string         `yaml:"line" json:"line" toml:"line" validate:"required"`
	Vars        map[string]any `yaml:"vars,omitempty" json:"vars,omitempty" toml:"vars"`

	// Source is the file the recipe was read from.
	Source string `yaml:"-" json:"-" toml:"-"`
}

// Plan compiles the recipe's line.
func (r Recipe) Plan() (*cmdline.Plan, error) {
	plan, err := cmdline.ParsePlan(r.Line)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", r.Name, err)
	}
	return plan, nil
}

// Bind returns the recipe defaults overlaid with overrides.
func (r Recipe) Bind(overrides cmdline.Vars) cmdline.Vars {
	vars := make(cmdline.Vars, len(r.Vars)+len(overrides))
	maps.Copy(vars, r.Vars)
	maps.Copy(vars, overrides)
	return vars
}

// Build compiles and evaluates the recipe.
func (r Recipe) Build(overrides cmdline.Vars, env cmdline.Env) (*cmdline.Command, error) {
	plan, err := r.Plan()
	if err != nil {
		return nil, err
	}
	cmd, err := plan.Eval(cmdline.Scope{Vars: r.Bind(overrides), Env: env})
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", r.Name, err)
	}
	return cmd, nil
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	_ = v.RegisterValidation("recipename", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the recipe fields and that its line compiles.
func (r Recipe) Validate() error {
	path := r.Name
	if path == "" {
		path = "<unnamed>"
	}
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field() + ":" + fe.Tag()
			}
			return fmt.Errorf("phase=validate recipe=%s: %w: %s", path, ErrInvalidRecipe, strings.Join(fields, ", "))
		}
		return fmt.Errorf("phase=validate recipe=%s: %w", path, err)
	}
	if _, err := cmdline.ParsePlan(r.Line); err != nil {
		return fmt.Errorf("phase=validate recipe=%s: %w: %w", path, ErrInvalidRecipe, err)
	}
	return nil
}

type Format uint8

const (
	FormatYAML Format = iota + 1
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// document is the file layout shared by all formats. YAML and JSON files
// may also be a bare list of recipes.
type document struct {
	Recipes []Recipe `yaml:"recipes" json:"recipes" toml:"recipes"`
}

// Parse decodes the recipes in data.
func Parse(data []byte, format Format) ([]Recipe, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatTOML:
		var doc document
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("phase=parse format=toml: %w", err)
		}
		return doc.Recipes, nil
	case FormatJSON:
		clean := jsonc.ToJSON(data)
		if isArray(clean) {
			var list []Recipe
			if err := json.Unmarshal(clean, &list); err != nil {
				return nil, fmt.Errorf("phase=parse format=json: %w", err)
			}
			return list, nil
		}
		var doc document
		if err := json.Unmarshal(clean, &doc); err != nil {
			return nil, fmt.Errorf("phase=parse format=json: %w", err)
		}
		return doc.Recipes, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func parseYAML(data []byte) ([]Recipe, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("phase=parse format=yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var list []Recipe
		if err := node.Decode(&list); err != nil {
			return nil, fmt.Errorf("phase=parse format=yaml: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("phase=parse format=yaml: %w", err)
		}
		return doc.Recipes, nil
	}
	return nil, fmt.Errorf("phase=parse format=yaml: unexpected root kind %d", node.Kind)
}

func isArray(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		}
		return false
	}
	return false
}
