package loader

import (
	"os"
	"strconv"
	"strings"
)

// ColorVarPrefixes are the environment variable prefixes collected into the
// colors section verbatim.
var ColorVarPrefixes = []string{"fish_color_", "fish_pager_color_"}

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "REEFLINE_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates an environment loader. The prefix includes the
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderFrom reads from a fixed environment instead of the process's.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

// Variables whose names do not split into section and key.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "TERM":            "terminal.term",
		prefix + "COLOR":           "terminal.color",
		prefix + "TAB_WIDTH":       "terminal.tab_width",
		prefix + "OMITTED_NEWLINE": "terminal.omitted_newline",
		prefix + "LOG_LEVEL":       "logging.level",
		prefix + "LOG_FILE":        "logging.file",
		prefix + "PROMPT":          "prompt.left",
		prefix + "RIGHT_PROMPT":    "prompt.right",
	}
}

// Load collects mapped variables, other prefixed variables as
// section.key, and color variables into the colors section.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		if isColorVar(name) {
			SetByPath(config, "colors."+name, value)
			continue
		}
		if path, ok := l.mapping[name]; ok {
			SetByPath(config, path, parseValue(value))
			continue
		}
		if path := l.envToPath(name); path != "" {
			SetByPath(config, path, parseValue(value))
		}
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// envToPath converts REEFLINE_PAGER_MAX_COLUMNS to pager.max_columns. Names
// without the prefix or without a key part yield "".
func (l *EnvLoader) envToPath(env string) string {
	if !strings.HasPrefix(env, l.prefix) {
		return ""
	}
	section, key, ok := strings.Cut(strings.TrimPrefix(env, l.prefix), "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return strings.ToLower(section) + "." + strings.ToLower(key)
}

func isColorVar(name string) bool {
	for _, p := range ColorVarPrefixes {
		if strings.HasPrefix(name, p) && len(name) > len(p) {
			return true
		}
	}
	return false
}

// parseValue converts booleans and integers; anything else stays a string.
// Empty values are kept as empty strings.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
