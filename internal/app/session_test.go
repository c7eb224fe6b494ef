package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/reefline/internal/config"
	"github.com/dshills/reefline/internal/config/loader"
	"github.com/dshills/reefline/internal/input/key"
	"github.com/dshills/reefline/internal/pager"
	"github.com/dshills/reefline/internal/prompt"
	"github.com/dshills/reefline/internal/renderer/backend"
	"github.com/dshills/reefline/internal/screen"
)

type failingPrompt struct{}

func (failingPrompt) Prompt(context.Context, prompt.Context) (string, string, error) {
	return "", "", errors.New("script exploded")
}

type testSession struct {
	*Session
	out *bytes.Buffer
	log *bytes.Buffer
}

func newTestSession(t *testing.T, cfg *config.Config, p prompt.Provider) *testSession {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Terminal.Color = "none"

	var out, logBuf bytes.Buffer
	s, err := NewSession(Options{
		Config: cfg,
		Out:    &out,
		Caps:   backend.Builtin(),
		Size:   func() (screen.Size, error) { return screen.Size{Width: 40, Height: 10}, nil },
		Logger: NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &logBuf}),
		Prompt: p,
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return &testSession{Session: s, out: &out, log: &logBuf}
}

func (ts *testSession) redraw(t *testing.T) string {
	t.Helper()
	ts.out.Reset()
	if err := ts.Redraw(context.Background()); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}
	return ts.out.String()
}

func gitCompletions() []pager.Completion {
	return []pager.Completion{{Text: "eckout"}, {Text: "erry-pick"}}
}

func TestNewSessionRequiresOutputAndSize(t *testing.T) {
	if _, err := NewSession(Options{}); err == nil {
		t.Error("expected error without output and size")
	}
}

func TestSessionRedraw(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	ts.SetCommandLine(screen.CommandLine{Text: "git", ExplicitLen: 3, Cursor: 3})

	got := ts.redraw(t)
	if !strings.Contains(got, "> ") || !strings.Contains(got, "git") {
		t.Errorf("expected prompt and command, got %q", got)
	}
	if again := ts.redraw(t); again != "" {
		t.Errorf("expected no output for an unchanged redraw, got %q", again)
	}
	if ts.Metrics().Snapshot().Redraws != 2 {
		t.Errorf("expected 2 redraws, got %d", ts.Metrics().Snapshot().Redraws)
	}
	if !strings.Contains(ts.log.String(), "session="+ts.ID()) {
		t.Errorf("expected session field in log, got %q", ts.log.String())
	}
}

func TestSessionCompleteAndSelect(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	ts.Complete("git ch", "ch", gitCompletions())

	got := ts.redraw(t)
	if !strings.Contains(got, "checkout") || !strings.Contains(got, "cherry-pick") {
		t.Fatalf("expected both completions drawn, got %q", got)
	}

	steps := []struct {
		ev   key.Event
		want string
	}{
		{key.NewSpecialEvent(key.KeyTab, key.ModNone), "git checkout"},
		{key.NewSpecialEvent(key.KeyTab, key.ModNone), "git cherry-pick"},
		{key.NewSpecialEvent(key.KeyBacktab, key.ModShift), "git checkout"},
	}
	for i, st := range steps {
		if err := ts.HandleKey(st.ev); err != nil {
			t.Fatalf("step %d: unexpected error %v", i, err)
		}
		ts.redraw(t)
		if got := ts.CommandLine().Text; got != st.want {
			t.Errorf("step %d: expected %q, got %q", i, st.want, got)
		}
	}

	c, ok := ts.Selected()
	if !ok || c.Text != "eckout" {
		t.Errorf("expected eckout selected, got %+v, %v", c, ok)
	}
	if err := ts.HandleKey(key.NewSpecialEvent(key.KeyEnter, key.ModNone)); !errors.Is(err, ErrQuit) {
		t.Errorf("expected ErrQuit, got %v", err)
	}
}

func TestSessionReplacingCompletion(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	ts.Complete("gco", "", []pager.Completion{{Text: "git checkout", Flags: pager.FlagReplacesLine}})
	ts.redraw(t)

	if err := ts.HandleKey(key.NewSpecialEvent(key.KeyDown, key.ModNone)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := ts.CommandLine().Text; got != "git checkout" {
		t.Errorf("expected the line replaced, got %q", got)
	}
}

func TestSessionSearch(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	ts.Complete("git ch", "ch", gitCompletions())
	ts.redraw(t)

	if err := ts.HandleKey(key.NewRuneEvent('p', key.ModNone)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !ts.Pager().SearchFieldShown() || ts.Pager().SearchField().Text() != "p" {
		t.Fatalf("expected search field with %q, got shown=%v text=%q",
			"p", ts.Pager().SearchFieldShown(), ts.Pager().SearchField().Text())
	}
	if ts.Pager().Len() != 1 {
		t.Errorf("expected 1 completion after filtering, got %d", ts.Pager().Len())
	}
	got := ts.redraw(t)
	if !strings.Contains(got, pager.SearchFieldPrompt) {
		t.Errorf("expected search field drawn, got %q", got)
	}

	ts.HandleKey(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
	if ts.Pager().Len() != 2 {
		t.Errorf("expected 2 completions after clearing the search, got %d", ts.Pager().Len())
	}

	if err := ts.HandleKey(key.NewSpecialEvent(key.KeyEscape, key.ModNone)); err != nil {
		t.Fatalf("expected Escape to close the search field, got %v", err)
	}
	if ts.Pager().SearchFieldShown() {
		t.Error("expected search field hidden")
	}
	if err := ts.HandleKey(key.NewSpecialEvent(key.KeyEscape, key.ModNone)); !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestSessionCancelKeys(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	for _, ev := range []key.Event{key.NewRuneEvent('c', key.ModCtrl), key.NewRuneEvent('d', key.ModCtrl)} {
		if err := ts.HandleKey(ev); !errors.Is(err, ErrCanceled) {
			t.Errorf("%s: expected ErrCanceled, got %v", ev, err)
		}
	}
	if err := ts.HandleKey(key.NewSpecialEvent(key.KeyInsert, key.ModNone)); err != nil {
		t.Errorf("expected unbound key ignored, got %v", err)
	}
}

func TestSessionPromptFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Prompt.Left = "fallback> "
	ts := newTestSession(t, cfg, failingPrompt{})

	if got := ts.redraw(t); !strings.Contains(got, "fallback> ") {
		t.Errorf("expected static prompt after script failure, got %q", got)
	}
	if !strings.Contains(ts.log.String(), "script exploded") {
		t.Errorf("expected prompt failure logged, got %q", ts.log.String())
	}
}

func TestSessionLuaPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.lua")
	src := `function left_prompt() return set_color("normal") .. "lua" .. reefline.width .. "> " end`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Prompt.Script = path
	ts := newTestSession(t, cfg, nil)

	got := ts.redraw(t)
	if !strings.Contains(got, "\x1b[mlua40> ") {
		t.Errorf("expected scripted prompt, got %q", got)
	}
}

func TestSessionMissingPromptScript(t *testing.T) {
	cfg := config.Default()
	cfg.Prompt.Script = filepath.Join(t.TempDir(), "missing.lua")
	_, err := NewSession(Options{
		Config: cfg,
		Out:    &bytes.Buffer{},
		Caps:   backend.Builtin(),
		Size:   func() (screen.Size, error) { return screen.Size{Width: 40, Height: 10}, nil },
		Logger: NullLogger,
	})
	var oerr *OperationError
	if !errors.As(err, &oerr) || oerr.Op != "load prompt" {
		t.Errorf("expected load prompt error, got %v", err)
	}
}

func TestSessionSetColor(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	if got := ts.setColor("normal"); got != "\x1b[m" {
		t.Errorf("expected sgr0 for normal, got %q", got)
	}
	if got := ts.setColor("red --bold"); !strings.HasPrefix(got, "\x1b[") {
		t.Errorf("expected escape sequence for red, got %q", got)
	}
}

func TestSessionReload(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	ts.SetCommandLine(screen.CommandLine{Text: "ls", ExplicitLen: 2, Cursor: 2})
	ts.redraw(t)

	cfg := config.Default()
	cfg.Terminal.Color = "none"
	cfg.Prompt.Left = "$ "
	cfg.Pager.MaxColumns = 2
	if err := ts.Reload(cfg); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	got := ts.redraw(t)
	if !strings.Contains(got, "$ ") || !strings.Contains(got, "ls") {
		t.Errorf("expected full repaint with the new prompt, got %q", got)
	}
	if ts.Pager().Options().MaxColumns != 2 {
		t.Errorf("expected pager options applied, got %+v", ts.Pager().Options())
	}
	if ts.Config() != cfg {
		t.Error("expected the new config to be active")
	}
	if !strings.Contains(ts.log.String(), "configuration reloaded") {
		t.Errorf("expected reload logged, got %q", ts.log.String())
	}
}

func TestSessionClose(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	if err := ts.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := ts.Close(); err != nil {
		t.Errorf("expected second Close to succeed, got %v", err)
	}
	if err := ts.Redraw(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
	if err := ts.Reload(config.Default()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}

func TestSessionFinish(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	ts.Complete("git ch", "ch", gitCompletions())
	ts.redraw(t)

	ts.out.Reset()
	if err := ts.Finish(context.Background()); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if !ts.Pager().IsEmpty() {
		t.Error("expected pager cleared")
	}
	if !strings.HasSuffix(ts.out.String(), "\r\n\r") {
		t.Errorf("expected a fresh line after the command, got %q", ts.out.String())
	}
}

func TestSessionRun(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	ts.Complete("git ch", "ch", gitCompletions())

	err := ts.Run(context.Background(), strings.NewReader("\t\r"), nil)
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
	if got := ts.CommandLine().Text; got != "git checkout" {
		t.Errorf("expected %q, got %q", "git checkout", got)
	}
	if keys := ts.Metrics().Snapshot().Keys; keys != 2 {
		t.Errorf("expected 2 keys, got %d", keys)
	}
}

func TestSessionRunEndOfInput(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	if err := ts.Run(context.Background(), strings.NewReader(""), nil); !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled at end of input, got %v", err)
	}
}

func TestSessionRunContextDone(t *testing.T) {
	ts := newTestSession(t, nil, nil)
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := ts.Run(ctx, r, nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSessionWatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[prompt]\nleft = \"a> \"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ts := newTestSession(t, nil, nil)
	load := func(p string) (*config.Config, error) {
		cfg, err := config.LoadFrom(loader.DefaultFS(), p, true, nil)
		if err == nil {
			cfg.Terminal.Color = "none"
		}
		return cfg, err
	}
	if err := ts.WatchConfig(path, load); err != nil {
		t.Fatalf("WatchConfig failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("[prompt]\nleft = \"b> \"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if ts.Config().Prompt.Left == "b> " {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("expected config reloaded, prompt is %q", ts.Config().Prompt.Left)
}
