package prompt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStatic(t *testing.T) {
	left, right, err := Static{Left: "> ", Right: "<"}.Prompt(context.Background(), Context{})
	if err != nil || left != "> " || right != "<" {
		t.Errorf("expected \"> \", \"<\", nil, got %q, %q, %v", left, right, err)
	}
}

func TestLuaProvider(t *testing.T) {
	src := `
function left_prompt()
  return set_color("blue") .. reefline.cwd .. set_color("normal") .. "> "
end

function right_prompt()
  if reefline.status ~= 0 then
    return "[" .. reefline.status .. "]"
  end
  return string.rep("-", math.floor(reefline.width / 20))
end
`
	colors := map[string]string{"blue": "<b>", "normal": "</>"}
	p, err := NewLuaProviderFromString("test.lua", src, LuaOptions{
		SetColor: func(spec string) string { return colors[spec] },
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	defer p.Close()

	left, right, err := p.Prompt(context.Background(), Context{Width: 80, Cwd: "~/src"})
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if left != "<b>~/src</>> " {
		t.Errorf("expected %q, got %q", "<b>~/src</>> ", left)
	}
	if right != "----" {
		t.Errorf("expected %q, got %q", "----", right)
	}

	_, right, err = p.Prompt(context.Background(), Context{Width: 80, Status: 2})
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if right != "[2]" {
		t.Errorf("expected %q, got %q", "[2]", right)
	}
}

func TestLuaProviderWithoutRightPrompt(t *testing.T) {
	p, err := NewLuaProviderFromString("t", `function left_prompt() return 42 end`, LuaOptions{})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	defer p.Close()

	left, right, err := p.Prompt(context.Background(), Context{})
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if left != "42" || right != "" {
		t.Errorf("expected \"42\", \"\", got %q, %q", left, right)
	}
}

func TestLuaProviderSetColorWithoutCallback(t *testing.T) {
	p, err := NewLuaProviderFromString("t", `function left_prompt() return set_color("red") .. "$" end`, LuaOptions{})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	defer p.Close()

	if left, _, _ := p.Prompt(context.Background(), Context{}); left != "$" {
		t.Errorf("expected %q, got %q", "$", left)
	}
}

func TestLuaProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLoad error
		wantFunc string
	}{
		{"no left prompt", `x = 1`, ErrNoPromptFunction, ""},
		{"left prompt not a function", `left_prompt = "hi"`, ErrNoPromptFunction, ""},
		{"runtime error", `function left_prompt() error("boom") end`, nil, LeftPromptFunc},
		{"bad return type", `function left_prompt() return {} end`, nil, LeftPromptFunc},
		{"right prompt error", `function left_prompt() return "" end
function right_prompt() return nil .. "x" end`, nil, RightPromptFunc},
	}

	for _, tt := range tests {
		p, err := NewLuaProviderFromString(tt.name, tt.src, LuaOptions{})
		if tt.wantLoad != nil {
			if !errors.Is(err, tt.wantLoad) {
				t.Errorf("%s: expected %v, got %v", tt.name, tt.wantLoad, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected load error %v", tt.name, err)
			continue
		}

		_, _, err = p.Prompt(context.Background(), Context{})
		var serr *ScriptError
		if !errors.As(err, &serr) {
			t.Errorf("%s: expected *ScriptError, got %v", tt.name, err)
		} else if serr.Func != tt.wantFunc {
			t.Errorf("%s: expected failure in %s, got %s", tt.name, tt.wantFunc, serr.Func)
		}
		p.Close()
	}
}

func TestLuaProviderSyntaxError(t *testing.T) {
	_, err := NewLuaProviderFromString("broken.lua", `function left_prompt(`, LuaOptions{})
	var serr *ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ScriptError, got %v", err)
	}
	if serr.Script != "broken.lua" || serr.Func != "" {
		t.Errorf("expected load error for broken.lua, got %+v", serr)
	}
	if !strings.Contains(serr.Error(), "broken.lua") {
		t.Errorf("expected script name in message, got %q", serr.Error())
	}
}

func TestLuaProviderTimeout(t *testing.T) {
	p, err := NewLuaProviderFromString("slow", `function left_prompt() while true do end end`,
		LuaOptions{Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	defer p.Close()

	start := time.Now()
	_, _, err = p.Prompt(context.Background(), Context{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("expected the call to be cut short, took %v", elapsed)
	}
}

func TestLuaProviderSandbox(t *testing.T) {
	p, err := NewLuaProviderFromString("t", `function left_prompt() return tostring(os) .. tostring(io) end`, LuaOptions{})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	defer p.Close()

	if left, _, _ := p.Prompt(context.Background(), Context{}); left != "nilnil" {
		t.Errorf("expected os and io unavailable, got %q", left)
	}
}

func TestLuaProviderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.lua")
	if err := os.WriteFile(path, []byte(`function left_prompt() return "file> " end`), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := NewLuaProvider(path, LuaOptions{})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	left, _, _ := p.Prompt(context.Background(), Context{})
	if left != "file> " {
		t.Errorf("expected %q, got %q", "file> ", left)
	}

	p.Close()
	if _, _, err := p.Prompt(context.Background(), Context{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	if _, err := NewLuaProvider(filepath.Join(t.TempDir(), "missing.lua"), LuaOptions{}); err == nil {
		t.Error("expected error for missing script")
	}
}
