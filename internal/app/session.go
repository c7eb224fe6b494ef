// Package app ties the screen, the pager, prompt evaluation and
// configuration together into an interactive session.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/reefline/internal/config"
	"github.com/dshills/reefline/internal/config/watcher"
	"github.com/dshills/reefline/internal/pager"
	"github.com/dshills/reefline/internal/prompt"
	"github.com/dshills/reefline/internal/renderer/backend"
	"github.com/dshills/reefline/internal/renderer/highlight"
	"github.com/dshills/reefline/internal/renderer/layout"
	"github.com/dshills/reefline/internal/screen"
)

// SizeFunc reports the terminal size.
type SizeFunc func() (screen.Size, error)

// Options configures NewSession.
type Options struct {
	// Config defaults to config.Default().
	Config *config.Config
	// Out receives every byte drawn.
	Out io.Writer
	// Caps nil loads terminfo for the configured term or $TERM, falling
	// back to built-in xterm capabilities.
	Caps *backend.Capabilities
	// Size is required.
	Size SizeFunc
	// TranslatesNewline reports an ONLCR tty.
	TranslatesNewline bool
	// Status enables detection of writes by other processes. May be nil.
	Status *backend.StatusTracker
	// Logger defaults to GetLogger().
	Logger *Logger
	// Prompt nil builds a provider from Config.Prompt.
	Prompt prompt.Provider
}

// Session owns one screen and its pager. All methods are safe for
// concurrent use; the config watcher calls Reload from its own goroutine.
type Session struct {
	mu sync.Mutex

	id  uuid.UUID
	log *Logger
	cfg *config.Config

	out       *backend.Output
	screen    *screen.Screen
	pager     *pager.Pager
	rendering *pager.PageRendering
	size      SizeFunc

	prompt     prompt.Provider
	ownsPrompt bool

	line          string
	cmd           screen.CommandLine
	status        int
	cwd           string
	cursorInPager bool

	metrics *Metrics
	watcher *watcher.Watcher
	closed  bool
}

// NewSession sets up the color pipeline and the screen for opts.Out.
func NewSession(opts Options) (*Session, error) {
	if opts.Out == nil || opts.Size == nil {
		return nil, fmt.Errorf("new session: output and size are required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	id := uuid.New()
	log := opts.Logger
	if log == nil {
		log = GetLogger()
	}
	log = log.WithField("session", id.String())

	caps := opts.Caps
	if caps == nil {
		var err error
		caps, err = backend.LoadCapabilitiesOrBuiltin(cfg.Terminal.Term)
		if err != nil {
			log.Warn("terminfo: %v, using built-in capabilities", err)
		}
	}
	support := backend.DetectColorSupport(opts.Out, cfg.ColorMode())
	out := backend.NewOutput(opts.Out, caps, support)

	cache := layout.NewCache()
	cache.SetVisualSequences(caps.VisualSequences())
	cache.SetTabWidth(tabWidth(cfg, caps))

	s := &Session{
		id:        id,
		log:       log,
		cfg:       cfg,
		out:       out,
		pager:     pager.New(cfg.PagerOptions()),
		rendering: pager.NewPageRendering(),
		size:      opts.Size,
		prompt:    opts.Prompt,
		metrics:   NewMetrics(),
	}
	s.screen = screen.New(out, screen.Options{
		Cache:                   cache,
		Resolver:                highlight.NewResolver(cfg.Vars(), support),
		Status:                  opts.Status,
		Logger:                  log.WithComponent("screen"),
		OutputTranslatesNewline: opts.TranslatesNewline,
		OmittedNewline:          cfg.OmittedNewline(),
	})

	if s.prompt == nil {
		p, err := s.newPrompt(cfg.Prompt)
		if err != nil {
			return nil, err
		}
		s.prompt, s.ownsPrompt = p, true
	}

	log.Debug("session started: term=%q dumb=%v colors=%d", caps.Name, caps.IsDumb(), support)
	return s, nil
}

func tabWidth(cfg *config.Config, caps *backend.Capabilities) int {
	if cfg.Terminal.TabWidth > 0 {
		return cfg.Terminal.TabWidth
	}
	return caps.TabWidth()
}

func (s *Session) newPrompt(pc config.PromptConfig) (prompt.Provider, error) {
	if pc.Script == "" {
		return prompt.Static{Left: pc.Left, Right: pc.Right}, nil
	}
	p, err := prompt.NewLuaProvider(pc.Script, prompt.LuaOptions{SetColor: s.setColor})
	if err != nil {
		return nil, &OperationError{Op: "load prompt", Target: pc.Script, Err: err}
	}
	return p, nil
}

// setColor renders a fish_color_* style value as escape sequences for the
// session's terminal. "normal" resets.
func (s *Session) setColor(spec string) string {
	var buf bytes.Buffer
	o := backend.NewOutput(&buf, s.out.Capabilities(), s.out.ColorSupport())
	style := highlight.ParseStyle(spec, s.out.ColorSupport())
	face := highlight.TextFace{FG: style.FG, BG: style.BG, Attrs: style.Attrs}
	if face == highlight.DefaultFace {
		o.ResetTextFace(false)
	} else {
		o.SetTextFace(face)
	}
	_ = o.Flush()
	return buf.String()
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id.String()
}

// Logger returns the session logger.
func (s *Session) Logger() *Logger {
	return s.log
}

// Screen returns the screen. Callers must not use it concurrently with
// the session.
func (s *Session) Screen() *screen.Screen {
	return s.screen
}

// Pager returns the pager. Callers must not use it concurrently with the
// session.
func (s *Session) Pager() *pager.Pager {
	return s.pager
}

// Rendering returns the pager layout from the last redraw.
func (s *Session) Rendering() *pager.PageRendering {
	return s.rendering
}

// Metrics returns the session's redraw and key counters.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Config returns the active configuration.
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetCommandLine replaces the command line.
func (s *Session) SetCommandLine(cmd screen.CommandLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line = cmd.Text
	s.cmd = cmd
}

// CommandLine returns the command line as last set or completed.
func (s *Session) CommandLine() screen.CommandLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd
}

// SetStatus sets the exit status shown to prompt scripts.
func (s *Session) SetStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetCwd sets the directory shown to prompt scripts.
func (s *Session) SetCwd(cwd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cwd = cwd
}

// Complete shows list in the pager as completions of token, which must end
// line. Each completion holds the text that follows token; the pager draws
// token in front of it and selecting it appends it to line.
func (s *Session) Complete(line, token string, list []pager.Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !strings.HasSuffix(line, token) {
		token = ""
	}
	s.line = line
	s.setLine(line)

	s.pager.Clear()
	s.pager.SetPrefix(token, false)
	s.pager.SetCompletions(list, true)
}

func (s *Session) setLine(text string) {
	n := len([]rune(text))
	s.cmd = screen.CommandLine{Text: text, ExplicitLen: n, Cursor: n}
}

// applySelection puts the selected completion into the command line, or
// restores the typed line when nothing is selected.
func (s *Session) applySelection() {
	c, ok := s.pager.SelectedCompletion(s.rendering)
	switch {
	case !ok:
		s.setLine(s.line)
	case c.ReplacesLine():
		s.setLine(c.Text)
	default:
		s.setLine(s.line + c.Text)
	}
}

// Selected returns the completion drawn selected.
func (s *Session) Selected() (pager.Completion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.SelectedCompletion(s.rendering)
}

// Redraw evaluates the prompt and brings the terminal up to date. A
// failing prompt script is logged and the static prompt from the config
// is drawn instead.
func (s *Session) Redraw(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redrawLocked(ctx)
}

func (s *Session) redrawLocked(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	size, err := s.size()
	if err != nil {
		return err
	}

	left, right, err := s.prompt.Prompt(ctx, prompt.Context{Width: size.Width, Status: s.status, Cwd: s.cwd})
	if err != nil {
		s.log.Warn("prompt: %v", err)
		left, right = s.cfg.Prompt.Left, s.cfg.Prompt.Right
	}

	start := time.Now()
	s.screen.Resolver().Reset()
	s.screen.Write(size, left, right, s.cmd, s.pager, s.rendering, s.cursorInPager)
	s.metrics.RecordRedraw(time.Since(start), s.out.BytesWritten())
	if err := s.out.Err(); err != nil {
		return &OperationError{Op: "redraw", Err: err}
	}
	return nil
}

// Reload applies cfg: palette, pager layout, log level and prompt. The
// next redraw repaints everything.
func (s *Session) Reload(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	if cfg.Prompt != s.cfg.Prompt {
		p, err := s.newPrompt(cfg.Prompt)
		if err != nil {
			return err
		}
		if s.ownsPrompt {
			closePrompt(s.prompt)
		}
		s.prompt, s.ownsPrompt = p, true
	}

	s.cfg = cfg
	s.log.SetLevel(ParseLogLevel(cfg.Logging.Level))
	s.screen.Resolver().SetVars(cfg.Vars())
	s.screen.Cache().SetTabWidth(tabWidth(cfg, s.out.Capabilities()))
	s.pager.SetOptions(cfg.PagerOptions())
	s.screen.ResetLine(true)
	s.log.Info("configuration reloaded")
	return nil
}

// WatchConfig reloads the configuration whenever path changes, using load
// to read it, and redraws. Errors are logged and the old settings kept.
func (s *Session) WatchConfig(path string, load func(path string) (*config.Config, error)) error {
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		s.log.Warn("config watcher: %v", err)
	}))
	if err != nil {
		return &OperationError{Op: "watch config", Target: path, Err: err}
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return &OperationError{Op: "watch config", Target: path, Err: err}
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		cfg, err := load(ev.Path)
		if err != nil {
			s.log.Warn("reload %s: %v", ev.Path, err)
			return
		}
		if err := s.Reload(cfg); err != nil {
			s.log.Warn("reload %s: %v", ev.Path, err)
			return
		}
		if err := s.Redraw(context.Background()); err != nil {
			s.log.Warn("redraw after reload: %v", err)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.watcher = w
	return nil
}

// Finish clears the pager, draws the final command line and moves to a
// fresh line below it.
func (s *Session) Finish(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pager.Clear()
	s.cursorInPager = false
	if err := s.redrawLocked(ctx); err != nil {
		return err
	}
	s.out.WriteString("\r\n")
	s.screen.ResetLine(true)
	return s.out.Err()
}

// Close stops the watcher and releases the prompt.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	w := s.watcher
	s.watcher = nil
	if s.ownsPrompt {
		closePrompt(s.prompt)
	}
	s.log.Debug("session closed after %d repaints", s.screen.Repaints())
	s.mu.Unlock()

	// The watcher's handler takes s.mu.
	if w != nil {
		return w.Close()
	}
	return nil
}

func closePrompt(p prompt.Provider) {
	if c, ok := p.(interface{ Close() }); ok {
		c.Close()
	}
}
