package app

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/dshills/reefline/internal/input/key"
	"github.com/dshills/reefline/internal/pager"
)

// motions maps navigation keys to pager selection motions.
var motions = map[key.Key]pager.SelectionMotion{
	key.KeyUp:       pager.North,
	key.KeyDown:     pager.South,
	key.KeyLeft:     pager.West,
	key.KeyRight:    pager.East,
	key.KeyPageUp:   pager.PageNorth,
	key.KeyPageDown: pager.PageSouth,
	key.KeyTab:      pager.Next,
	key.KeyBacktab:  pager.Prev,
}

// HandleKey applies one key to the pager and command line. It returns
// ErrQuit on Enter and ErrCanceled on Ctrl-C, Ctrl-D or Escape outside
// the search field. The caller redraws afterwards.
func (s *Session) HandleKey(ev key.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	p := s.pager
	search := p.SearchField()

	switch {
	case ev.Key == key.KeyEnter:
		return ErrQuit
	case ev.IsCtrl('c'), ev.IsCtrl('d'):
		return ErrCanceled
	case ev.Key == key.KeyEscape:
		if !p.SearchFieldShown() {
			return ErrCanceled
		}
		s.setSearchShown(false)
	case ev.IsCtrl('l'):
		s.screen.ResetLine(true)
	case ev.IsCtrl('s'):
		s.setSearchShown(!p.SearchFieldShown())
	case ev.Key == key.KeyBackspace && p.SearchFieldShown():
		if search.Backspace() {
			p.Refilter()
		}
	case ev.Key == key.KeyDelete && p.SearchFieldShown():
		if search.Delete() {
			p.Refilter()
		}
	case ev.Key == key.KeyHome && p.SearchFieldShown():
		search.Home()
	case ev.Key == key.KeyEnd && p.SearchFieldShown():
		search.End()
	case ev.IsPrintable():
		if !p.SearchFieldShown() {
			s.setSearchShown(true)
		}
		search.Insert(string(ev.Rune))
		p.Refilter()
	default:
		m, ok := motions[ev.Key]
		if !ok {
			s.log.Debug("unbound key %s", ev)
			return nil
		}
		if p.SelectNextCompletionInDirection(m, s.rendering) {
			s.applySelection()
		}
	}
	return nil
}

func (s *Session) setSearchShown(shown bool) {
	p := s.pager
	p.SetSearchFieldShown(shown)
	if !shown {
		p.SearchField().Clear()
	}
	p.Refilter()
	s.cursorInPager = shown
}

// handleKey is HandleKey with panics turned into errors.
func (s *Session) handleKey(ev key.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("key %s: panic: %v", ev, r)
			err = &RecoveredPanicError{Value: r}
		}
	}()
	s.metrics.RecordKey()
	return s.HandleKey(ev)
}

// Run draws the session and then handles keys read from in, redrawing
// after each one and after every signal on resize, until a key ends the
// session or ctx is done. It returns ErrQuit when the user accepted the
// selection. in should be a raw-mode tty.
func (s *Session) Run(ctx context.Context, in io.Reader, resize <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan key.Event)
	readErr := make(chan error, 1)
	go func() {
		r := key.NewReader(in)
		for {
			ev, err := r.ReadEvent()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := s.Redraw(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return ErrCanceled
			}
			return &OperationError{Op: "read input", Err: err}
		case <-resize:
			s.log.Debug("terminal resized")
		case ev := <-events:
			if err := s.handleKey(ev); err != nil {
				return err
			}
		}
		if err := s.Redraw(ctx); err != nil {
			return err
		}
	}
}
