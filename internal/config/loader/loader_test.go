package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func getByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	v, ok := current[parts[len(parts)-1]]
	return v, ok
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/reefline.toml", `
[terminal]
tab_width = 4
color = "256"

[colors]
fish_color_command = "blue --bold"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/reefline.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := getByPath(config, "terminal.tab_width"); v != int64(4) {
		t.Errorf("expected tab_width 4, got %v (%T)", v, v)
	}
	if v, _ := getByPath(config, "terminal.color"); v != "256" {
		t.Errorf("expected color \"256\", got %v", v)
	}
	if v, _ := getByPath(config, "colors.fish_color_command"); v != "blue --bold" {
		t.Errorf("expected command color, got %v", v)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "[terminal\ntab_width = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Path != "/invalid.toml" {
		t.Errorf("expected path /invalid.toml, got %q", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("expected a line number")
	}
	if perr.Unwrap() == nil {
		t.Error("expected an underlying error")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[pager]\nmax_columns = 3\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if v, _ := getByPath(config, "pager.max_columns"); v != int64(3) {
		t.Errorf("expected max_columns 3, got %v", v)
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/reefline.yaml", `
pager:
  max_columns: 4
  undisclosed_rows: 2
prompt:
  left: "> "
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/reefline.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := getByPath(config, "pager.max_columns"); v != 4 {
		t.Errorf("expected max_columns 4, got %v (%T)", v, v)
	}
	if v, _ := getByPath(config, "prompt.left"); v != "> " {
		t.Errorf("expected left prompt, got %q", v)
	}
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yml", "pager:\n\tmax_columns: 1\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Line != 2 {
		t.Errorf("expected line 2, got %d", perr.Line)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"a.toml", "*loader.TOMLLoader", false},
		{"a.TOML", "*loader.TOMLLoader", false},
		{"a.yaml", "*loader.YAMLLoader", false},
		{"a.yml", "*loader.YAMLLoader", false},
		{"a.json", "", true},
	}

	for _, tt := range tests {
		l, err := ForPath(NewMemFS(), tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error %v, got %v", tt.path, tt.wantErr, err)
			continue
		}
		if err != nil {
			continue
		}
		switch l.(type) {
		case *TOMLLoader:
			if tt.want != "*loader.TOMLLoader" {
				t.Errorf("%s: expected %s, got TOML", tt.path, tt.want)
			}
		case *YAMLLoader:
			if tt.want != "*loader.YAMLLoader" {
				t.Errorf("%s: expected %s, got YAML", tt.path, tt.want)
			}
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"terminal": map[string]any{"term": "xterm", "tab_width": int64(8)},
		"prompt":   map[string]any{"left": "$ "},
	}
	src := map[string]any{
		"terminal": map[string]any{"term": "screen"},
		"logging":  map[string]any{"level": "debug"},
	}

	got := DeepMerge(dst, src)
	if v, _ := getByPath(got, "terminal.term"); v != "screen" {
		t.Errorf("expected term screen, got %v", v)
	}
	if v, _ := getByPath(got, "terminal.tab_width"); v != int64(8) {
		t.Errorf("expected tab_width kept, got %v", v)
	}
	if v, _ := getByPath(got, "logging.level"); v != "debug" {
		t.Errorf("expected logging.level debug, got %v", v)
	}
	if v, _ := getByPath(got, "prompt.left"); v != "$ " {
		t.Errorf("expected prompt kept, got %v", v)
	}
}

func TestEnvLoader_Load(t *testing.T) {
	env := []string{
		"REEFLINE_TAB_WIDTH=2",
		"REEFLINE_LOG_LEVEL=debug",
		"REEFLINE_PAGER_MAX_COLUMNS=3",
		"REEFLINE_PROMPT=> ",
		"fish_color_command=green",
		"fish_pager_color_prefix=cyan --underline",
		"fish_color_=ignored",
		"HOME=/root",
		"REEFLINE_BAD",
	}

	config, err := NewEnvLoaderFrom("REEFLINE_", env).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"terminal.tab_width", int64(2)},
		{"logging.level", "debug"},
		{"pager.max_columns", int64(3)},
		{"prompt.left", "> "},
		{"colors.fish_color_command", "green"},
		{"colors.fish_pager_color_prefix", "cyan --underline"},
	}
	for _, tt := range tests {
		if v, ok := getByPath(config, tt.path); !ok || v != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.path, tt.want, v)
		}
	}

	if _, ok := getByPath(config, "colors.fish_color_"); ok {
		t.Error("expected bare prefix ignored")
	}
	if len(config) != 5 {
		t.Errorf("expected 5 sections, got %d: %v", len(config), config)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("REEFLINE_")
	tests := []struct {
		env  string
		want string
	}{
		{"REEFLINE_PAGER_MAX_COLUMNS", "pager.max_columns"},
		{"REEFLINE_TERMINAL_TERM", "terminal.term"},
		{"REEFLINE_SOLO", ""},
		{"OTHER_PAGER_X", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.env, tt.want, got)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"off", false},
		{"12", int64(12)},
		{"-1", int64(-1)},
		{"abc", "abc"},
		{"1.5", "1.5"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("%q: expected %v (%T), got %v (%T)", tt.in, tt.want, tt.want, got, got)
		}
	}
}
