package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/reefline/internal/config/loader"
	"github.com/dshills/reefline/internal/pager"
	"github.com/dshills/reefline/internal/renderer/backend"
	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/screen"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "REEFLINE_"

// Config holds every reefline setting.
type Config struct {
	Terminal TerminalConfig
	Pager    PagerConfig
	// Colors maps fish_color_* and fish_pager_color_* names to values in
	// the fish option syntax, e.g. "blue --bold".
	Colors  map[string]string
	Logging LoggingConfig
	Prompt  PromptConfig
}

// TerminalConfig overrides what is detected about the terminal.
type TerminalConfig struct {
	// Term replaces $TERM for the terminfo lookup.
	Term string
	// Color is a backend.ColorMode name; "auto" detects.
	Color string
	// TabWidth is the tab stop spacing; 0 uses the terminal's init_tabs.
	TabWidth int
	// OmittedNewline marks output that did not end in a newline.
	OmittedNewline string
}

// PagerConfig tunes the completion grid. Zero values use the defaults.
type PagerConfig struct {
	MaxColumns       int
	UndisclosedRows  int
	SearchFieldWidth int
}

// LoggingConfig selects the log level and destination.
type LoggingConfig struct {
	Level string
	// File receives the log; empty discards it since stdout is the
	// terminal being drawn.
	File string
}

// PromptConfig chooses what is drawn before the command line. A script
// takes precedence over the static text.
type PromptConfig struct {
	Left   string
	Right  string
	Script string
}

// Default returns the built-in settings.
func Default() *Config {
	opts := pager.DefaultOptions()
	return &Config{
		Terminal: TerminalConfig{
			Color:          string(backend.ColorModeAuto),
			OmittedNewline: screen.DefaultOmittedNewline,
		},
		Pager: PagerConfig{
			MaxColumns:       opts.MaxColumns,
			UndisclosedRows:  opts.UndisclosedRows,
			SearchFieldWidth: opts.SearchFieldWidth,
		},
		Colors:  map[string]string{},
		Logging: LoggingConfig{Level: "info"},
		Prompt:  PromptConfig{Left: "> "},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/reefline/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "reefline", "config.toml")
}

// Load reads path, or the default path when path is empty, and applies
// environment overrides. A missing default file is not an error; a missing
// explicit one is.
func Load(path string) (*Config, error) {
	required := path != ""
	if !required {
		path = DefaultPath()
	}
	return LoadFrom(loader.DefaultFS(), path, required, loader.NewEnvLoader(EnvPrefix))
}

// LoadFrom is Load with the file system and environment supplied. env may
// be nil.
func LoadFrom(fsys loader.FileSystem, path string, required bool, env loader.Loader) (*Config, error) {
	merged := map[string]any{}

	if path != "" {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		if data == nil && required {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		merged = loader.DeepMerge(merged, data)
	}

	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := cfg.Apply(merged); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply decodes a loader map over c and validates the result. Unknown
// sections and keys are ignored.
func (c *Config) Apply(m map[string]any) error {
	var errs []error
	d := decoder{errs: &errs}

	if s := d.section(m, "terminal"); s != nil {
		d.str(s, "terminal", "term", &c.Terminal.Term)
		d.str(s, "terminal", "color", &c.Terminal.Color)
		d.int(s, "terminal", "tab_width", &c.Terminal.TabWidth)
		d.str(s, "terminal", "omitted_newline", &c.Terminal.OmittedNewline)
	}
	if s := d.section(m, "pager"); s != nil {
		d.int(s, "pager", "max_columns", &c.Pager.MaxColumns)
		d.int(s, "pager", "undisclosed_rows", &c.Pager.UndisclosedRows)
		d.int(s, "pager", "search_field_width", &c.Pager.SearchFieldWidth)
	}
	if s := d.section(m, "colors"); s != nil {
		for name := range s {
			var v string
			if d.str(s, "colors", name, &v) {
				c.Colors[name] = v
			}
		}
	}
	if s := d.section(m, "logging"); s != nil {
		d.str(s, "logging", "level", &c.Logging.Level)
		d.str(s, "logging", "file", &c.Logging.File)
	}
	if s := d.section(m, "prompt"); s != nil {
		d.str(s, "prompt", "left", &c.Prompt.Left)
		d.str(s, "prompt", "right", &c.Prompt.Right)
		d.str(s, "prompt", "script", &c.Prompt.Script)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return c.Validate()
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	bad := func(path string, v any, msg string) {
		errs = append(errs, &ValueError{Path: path, Value: v, Message: msg})
	}

	if _, err := backend.ParseColorMode(c.Terminal.Color); err != nil {
		bad("terminal.color", c.Terminal.Color, "expected auto, none, 16, 256 or 24bit")
	}
	if c.Terminal.TabWidth < 0 || c.Terminal.TabWidth > 64 {
		bad("terminal.tab_width", c.Terminal.TabWidth, "must be between 0 and 64")
	}
	if c.Pager.MaxColumns < 0 {
		bad("pager.max_columns", c.Pager.MaxColumns, "must not be negative")
	}
	if c.Pager.UndisclosedRows < 0 {
		bad("pager.undisclosed_rows", c.Pager.UndisclosedRows, "must not be negative")
	}
	if c.Pager.SearchFieldWidth < 0 {
		bad("pager.search_field_width", c.Pager.SearchFieldWidth, "must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error", "off":
	default:
		bad("logging.level", c.Logging.Level, "expected debug, info, warn, error or off")
	}

	return errors.Join(errs...)
}

// ColorMode returns the parsed color override.
func (c *Config) ColorMode() backend.ColorMode {
	mode, err := backend.ParseColorMode(c.Terminal.Color)
	if err != nil {
		return backend.ColorModeAuto
	}
	return mode
}

// PagerOptions returns the pager layout options.
func (c *Config) PagerOptions() pager.Options {
	return pager.Options{
		MaxColumns:       c.Pager.MaxColumns,
		UndisclosedRows:  c.Pager.UndisclosedRows,
		SearchFieldWidth: c.Pager.SearchFieldWidth,
	}
}

// Vars exposes the configured colors to the highlight resolver.
func (c *Config) Vars() highlight.Vars {
	return highlight.MapVars(maps.Clone(c.Colors))
}

// OmittedNewline returns the glyph for unterminated output.
func (c *Config) OmittedNewline() string {
	if c.Terminal.OmittedNewline == "" {
		return screen.DefaultOmittedNewline
	}
	return c.Terminal.OmittedNewline
}

// decoder reads typed values out of loader maps, collecting type errors.
type decoder struct {
	errs *[]error
}

func (d decoder) fail(path string, v any, msg string) {
	*d.errs = append(*d.errs, &ValueError{Path: path, Value: v, Message: msg})
}

func (d decoder) section(m map[string]any, name string) map[string]any {
	v, ok := m[name]
	if !ok {
		return nil
	}
	s, ok := v.(map[string]any)
	if !ok {
		d.fail(name, v, "expected a table")
		return nil
	}
	return s
}

func (d decoder) str(s map[string]any, section, key string, dst *string) bool {
	v, ok := s[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case string:
		*dst = t
	case int, int64, float64, bool:
		*dst = fmt.Sprint(t)
	default:
		d.fail(section+"."+key, v, "expected a string")
		return false
	}
	return true
}

func (d decoder) int(s map[string]any, section, key string, dst *int) bool {
	v, ok := s[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case int:
		*dst = t
	case int64:
		*dst = int(t)
	case float64:
		if t != float64(int(t)) {
			d.fail(section+"."+key, v, "expected an integer")
			return false
		}
		*dst = int(t)
	default:
		d.fail(section+"."+key, v, "expected an integer")
		return false
	}
	return true
}
