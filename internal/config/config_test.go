package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/reefline/internal/config/loader"
	"github.com/dshills/reefline/internal/renderer/backend"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if c.ColorMode() != backend.ColorModeAuto {
		t.Errorf("expected auto color mode, got %q", c.ColorMode())
	}
	if c.OmittedNewline() != "⏎" {
		t.Errorf("expected omitted newline ⏎, got %q", c.OmittedNewline())
	}
	opts := c.PagerOptions()
	if opts.MaxColumns != 6 || opts.UndisclosedRows != 4 || opts.SearchFieldWidth != 12 {
		t.Errorf("expected pager defaults 6/4/12, got %+v", opts)
	}
	if c.Prompt.Left != "> " {
		t.Errorf("expected left prompt \"> \", got %q", c.Prompt.Left)
	}
}

func TestLoadFrom_TOML(t *testing.T) {
	fsys := memFS{"/c.toml": `
[terminal]
term = "xterm-256color"
color = "256"
tab_width = 4

[pager]
max_columns = 3

[colors]
fish_color_command = "blue --bold"
fish_color_param = "cyan"

[prompt]
left = "$ "
right = "[%]"
`}
	env := loader.NewEnvLoaderFrom(EnvPrefix, []string{
		"fish_color_param=red",
		"REEFLINE_LOG_LEVEL=debug",
	})

	c, err := LoadFrom(fsys, "/c.toml", true, env)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if c.Terminal.Term != "xterm-256color" {
		t.Errorf("expected term override, got %q", c.Terminal.Term)
	}
	if c.ColorMode() != backend.ColorMode256 {
		t.Errorf("expected 256 color mode, got %q", c.ColorMode())
	}
	if c.Terminal.TabWidth != 4 {
		t.Errorf("expected tab width 4, got %d", c.Terminal.TabWidth)
	}
	if c.Pager.MaxColumns != 3 || c.Pager.UndisclosedRows != 4 {
		t.Errorf("expected max columns 3 and default rows, got %+v", c.Pager)
	}
	if c.Colors["fish_color_command"] != "blue --bold" {
		t.Errorf("expected command color from file, got %q", c.Colors["fish_color_command"])
	}
	if c.Colors["fish_color_param"] != "red" {
		t.Errorf("expected environment color to win, got %q", c.Colors["fish_color_param"])
	}
	if c.Logging.Level != "debug" {
		t.Errorf("expected level from environment, got %q", c.Logging.Level)
	}
	if c.Prompt.Left != "$ " || c.Prompt.Right != "[%]" {
		t.Errorf("expected prompts from file, got %+v", c.Prompt)
	}

	v, ok := c.Vars().Get("fish_color_command")
	if !ok || v != "blue --bold" {
		t.Errorf("expected vars to expose colors, got %q, %v", v, ok)
	}
}

func TestLoadFrom_YAML(t *testing.T) {
	fsys := memFS{"/c.yaml": "pager:\n  search_field_width: 20\nterminal:\n  omitted_newline: \"%\"\n"}

	c, err := LoadFrom(fsys, "/c.yaml", true, nil)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if c.Pager.SearchFieldWidth != 20 {
		t.Errorf("expected search field width 20, got %d", c.Pager.SearchFieldWidth)
	}
	if c.OmittedNewline() != "%" {
		t.Errorf("expected omitted newline %%, got %q", c.OmittedNewline())
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	if _, err := LoadFrom(memFS{}, "/none.toml", true, nil); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	c, err := LoadFrom(memFS{}, "/none.toml", false, nil)
	if err != nil {
		t.Fatalf("expected optional file to be skipped, got %v", err)
	}
	if c.Pager.MaxColumns != 6 {
		t.Errorf("expected defaults, got %+v", c.Pager)
	}
}

func TestLoadFrom_ParseError(t *testing.T) {
	_, err := LoadFrom(memFS{"/c.toml": "[pager\n"}, "/c.toml", true, nil)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if perr.Path != "/c.toml" {
		t.Errorf("expected path /c.toml, got %q", perr.Path)
	}
}

func TestLoadFrom_UnsupportedFormat(t *testing.T) {
	if _, err := LoadFrom(memFS{}, "/c.ini", false, nil); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestApply_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		path string
	}{
		{"wrong type", map[string]any{"pager": map[string]any{"max_columns": "many"}}, "pager.max_columns"},
		{"fractional", map[string]any{"terminal": map[string]any{"tab_width": 2.5}}, "terminal.tab_width"},
		{"not a table", map[string]any{"pager": "x"}, "pager"},
		{"bad color mode", map[string]any{"terminal": map[string]any{"color": "sepia"}}, "terminal.color"},
		{"negative", map[string]any{"pager": map[string]any{"undisclosed_rows": int64(-1)}}, "pager.undisclosed_rows"},
		{"tab too wide", map[string]any{"terminal": map[string]any{"tab_width": int64(100)}}, "terminal.tab_width"},
		{"bad level", map[string]any{"logging": map[string]any{"level": "loud"}}, "logging.level"},
		{"bad color value", map[string]any{"colors": map[string]any{"fish_color_x": []any{1}}}, "colors.fish_color_x"},
	}

	for _, tt := range tests {
		err := Default().Apply(tt.m)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%s: expected ErrInvalidValue, got %v", tt.name, err)
			continue
		}
		var verr *ValueError
		if !errors.As(err, &verr) || verr.Path != tt.path {
			t.Errorf("%s: expected error for %s, got %v", tt.name, tt.path, err)
		}
	}
}

func TestApply_IgnoresUnknown(t *testing.T) {
	c := Default()
	err := c.Apply(map[string]any{
		"editor":   map[string]any{"tab_size": int64(2)},
		"terminal": map[string]any{"mystery": true, "color": int64(16)},
	})
	if err != nil {
		t.Fatalf("expected unknown keys ignored, got %v", err)
	}
	if c.ColorMode() != backend.ColorMode16 {
		t.Errorf("expected numeric color mode accepted, got %q", c.Terminal.Color)
	}
}

func TestLoad_RealFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[prompt]\nscript = \"p.lua\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Prompt.Script != "p.lua" {
		t.Errorf("expected script path, got %q", c.Prompt.Script)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != "/xdg/reefline/config.toml" {
		t.Errorf("expected /xdg/reefline/config.toml, got %q", got)
	}
}
