package recipe

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdmacro/pkg/cmdline"
)

const yamlRecipes = `
recipes:
  - name: greet
    description: say hello
    line: echo Hello ("Lord" name ?)
    vars:
      name: Steve
  - name: install
    line: echo Installing (-p packages ?)
    vars:
      packages: [cowsay, emacs]
`

const yamlList = `
- name: home
  line: echo (var(HOME))
`

const tomlRecipes = `
[[recipes]]
name = "count"
line = "echo (n) (rest ..)"

[recipes.vars]
n = 3
rest = ["a", "b"]
`

const jsoncRecipes = `{
  // comments are allowed
  "recipes": [
    {"name": "opt", "line": "echo (x ?)", "vars": {"x": null}},
  ]
}`

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(data), 0o644))
	}
	return fs
}

func TestParse_Formats(t *testing.T) {
	rs, err := Parse([]byte(yamlRecipes), FormatYAML)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "greet", rs[0].Name)
	assert.Equal(t, "say hello", rs[0].Description)

	rs, err = Parse([]byte(yamlList), FormatYAML)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "home", rs[0].Name)

	rs, err = Parse([]byte(tomlRecipes), FormatTOML)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "echo (n) (rest ..)", rs[0].Line)

	rs, err = Parse([]byte(jsoncRecipes), FormatJSON)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Contains(t, rs[0].Vars, "x")

	rs, err = Parse([]byte(`[{"name": "a", "line": "true"}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, rs, 1)

	_, err = Parse([]byte("x"), Format(0))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRecipe_Build(t *testing.T) {
	cases := []struct {
		data   string
		format Format
		name   string
		over   cmdline.Vars
		want   []string
	}{
		{yamlRecipes, FormatYAML, "greet", nil, []string{"Hello", "Lord", "Steve"}},
		{yamlRecipes, FormatYAML, "greet", cmdline.Vars{"name": nil}, []string{"Hello"}},
		{yamlRecipes, FormatYAML, "install", nil, []string{"Installing", "-p", "cowsay", "emacs"}},
		{yamlRecipes, FormatYAML, "install", cmdline.Vars{"packages": []string{}}, []string{"Installing"}},
		{tomlRecipes, FormatTOML, "count", nil, []string{"3", "a", "b"}},
		{jsoncRecipes, FormatJSON, "opt", nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs, err := Parse([]byte(tc.data), tc.format)
			require.NoError(t, err)
			reg := NewRegistry()
			for _, r := range rs {
				require.NoError(t, reg.Register(r))
			}
			r, err := reg.Lookup(tc.name)
			require.NoError(t, err)
			cmd, err := r.Build(tc.over, cmdline.MapEnv{})
			require.NoError(t, err)
			assert.Equal(t, "echo", cmd.Program)
			assert.Equal(t, tc.want, cmd.Args)
		})
	}
}

func TestRecipe_Bind(t *testing.T) {
	r := Recipe{Vars: map[string]any{"a": 1, "b": 2}}
	vars := r.Bind(cmdline.Vars{"b": 3, "c": 4})
	assert.Equal(t, cmdline.Vars{"a": 1, "b": 3, "c": 4}, vars)
	assert.Equal(t, 2, r.Vars["b"])
}

func TestRecipe_Validate(t *testing.T) {
	cases := []struct {
		name string
		r    Recipe
		subs []string
	}{
		{"missing name", Recipe{Line: "echo"}, []string{"recipe=<unnamed>", "name:required"}},
		{"bad name", Recipe{Name: "has space", Line: "echo"}, []string{"name:recipename"}},
		{"missing line", Recipe{Name: "x"}, []string{"line:required"}},
		{"bad line", Recipe{Name: "x", Line: "echo (a"}, []string{"recipe=x", "unclosed"}},
		{"bad shape", Recipe{Name: "x", Line: "echo (-p a)"}, []string{"needs the ? marker"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.r.Validate()
			require.ErrorIs(t, err, ErrInvalidRecipe)
			for _, sub := range tc.subs {
				assert.Contains(t, err.Error(), sub)
			}
		})
	}
	assert.NoError(t, Recipe{Name: "git.log:short", Line: "git log --oneline"}.Validate())
}

func TestLoader(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/cfg/recipes/base.yml":         yamlRecipes,
		"/cfg/recipes/nested/list.yaml": yamlList,
		"/cfg/recipes/more.toml":        tomlRecipes,
		"/cfg/recipes/opt.jsonc":        jsoncRecipes,
		"/cfg/recipes/README.md":        "# not a recipe",
		"/extra/one.yml":                "- name: extra\n  line: echo extra\n",
	})
	l := NewLoader(fs)

	files, err := l.Discover("/cfg/recipes", "/does/not/exist")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/cfg/recipes/base.yml",
		"/cfg/recipes/more.toml",
		"/cfg/recipes/nested/list.yaml",
		"/cfg/recipes/opt.jsonc",
	}, files)

	reg, err := l.LoadDirs([]string{"/cfg/recipes"}, "/extra/one.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "extra", "greet", "home", "install", "opt"}, reg.Names())
	assert.Equal(t, 6, reg.Len())

	r, ok := reg.Get("home")
	require.True(t, ok)
	assert.Equal(t, "/cfg/recipes/nested/list.yaml", r.Source)
	assert.Len(t, reg.All(), 6)
}

func TestLoader_Errors(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/a.yml":   "- name: dup\n  line: echo a\n",
		"/b.yml":   "- name: dup\n  line: echo b\n",
		"/bad.yml": "- name: bad\n  line: echo (x ? ..)\n",
		"/c.txt":   "",
	})
	l := NewLoader(fs)

	_, err := l.Load("/a.yml", "/b.yml")
	require.ErrorIs(t, err, ErrRecipeExists)
	assert.Contains(t, err.Error(), "/a.yml, /b.yml")

	_, err = l.Load("/bad.yml")
	require.ErrorIs(t, err, ErrInvalidRecipe)
	assert.True(t, errors.Is(err, cmdline.ErrGroupShape))

	_, err = l.Load("/c.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = l.Load("/missing.yml")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "recipe file /missing.yml"))

	_, err = NewRegistry().Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownRecipe)
}
