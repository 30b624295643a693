package recipe

import (
	"fmt"
	"slices"
)

// Registry holds recipes by name.
type Registry struct {
	recipes map[string]Recipe
}

func NewRegistry() *Registry {
	return &Registry{recipes: make(map[string]Recipe)}
}

// Register adds r. A second recipe with the same name is rejected with
// ErrRecipeExists, naming both files.
func (reg *Registry) Register(r Recipe) error {
	if prev, exists := reg.recipes[r.Name]; exists {
		return fmt.Errorf("%w: %s (%s, %s)", ErrRecipeExists, r.Name, prev.Source, r.Source)
	}
	reg.recipes[r.Name] = r
	return nil
}

func (reg *Registry) Get(name string) (Recipe, bool) {
	r, ok := reg.recipes[name]
	return r, ok
}

// Lookup is Get with an error listing what is available.
func (reg *Registry) Lookup(name string) (Recipe, error) {
	r, ok := reg.recipes[name]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %q\navailable: %v", ErrUnknownRecipe, name, reg.Names())
	}
	return r, nil
}

// Names returns the recipe names in sorted order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.recipes))
	for name := range reg.recipes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns the recipes sorted by name.
func (reg *Registry) All() []Recipe {
	out := make([]Recipe, 0, len(reg.recipes))
	for _, name := range reg.Names() {
		out = append(out, reg.recipes[name])
	}
	return out
}

func (reg *Registry) Len() int { return len(reg.recipes) }
