package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/reefline/internal/app"
	"github.com/dshills/reefline/internal/input/key"
	"github.com/dshills/reefline/internal/prompt"
	"github.com/dshills/reefline/internal/renderer/backend"
	"github.com/dshills/reefline/internal/screen"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

type renderOptions struct {
	Color string
	Term  string
}

func newRenderCmd(a *App) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <frame.json|->",
		Short: "Draw a frame described in JSON and exit",
		Long: strings.TrimSpace(`
Reads a frame (prompt, command line, completions and optional key input)
from a JSON file, or stdin when the path is "-", and writes the terminal
output that draws it. Keys are replayed through the pager, so "\t" selects
the first completion.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			f, err := parseFrame(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return runRender(cmd.Context(), a, opts, f, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Color, "color", "", "Color mode (auto, none, 16, 256, truecolor); overrides the config")
	cmd.Flags().StringVar(&opts.Term, "term", "", "Terminal type for capabilities; overrides the config and $TERM")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func runRender(ctx context.Context, a *App, opts *renderOptions, f *frame, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := *a.cfg
	if opts.Color != "" {
		if _, err := backend.ParseColorMode(opts.Color); err != nil {
			return err
		}
		cfg.Terminal.Color = opts.Color
	}
	if opts.Term != "" {
		cfg.Terminal.Term = opts.Term
	}

	size := screen.Size{Width: f.Width, Height: f.Height}
	if size.Width == 0 {
		size.Width = defaultWidth
	}
	if size.Height == 0 {
		size.Height = defaultHeight
	}

	var provider prompt.Provider
	if f.Prompt != nil || f.RightPrompt != nil {
		st := prompt.Static{Left: cfg.Prompt.Left, Right: cfg.Prompt.Right}
		if f.Prompt != nil {
			st.Left = *f.Prompt
		}
		if f.RightPrompt != nil {
			st.Right = *f.RightPrompt
		}
		provider = st
	}

	s, err := app.NewSession(app.Options{
		Config: &cfg,
		Out:    out,
		Size:   func() (screen.Size, error) { return size, nil },
		Logger: a.log,
		Prompt: provider,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	s.SetStatus(f.Status)
	s.SetCwd(f.Cwd)
	if len(f.Completions) > 0 {
		s.Complete(f.Text, f.Token, f.Completions)
	} else {
		s.SetCommandLine(f.commandLine())
	}

	if err := s.Redraw(ctx); err != nil {
		return err
	}
	if err := replayKeys(ctx, s, f.Keys); err != nil {
		return err
	}
	return s.Finish(ctx)
}

// replayKeys feeds keys to the session, redrawing after each. Enter and
// the cancel keys stop the replay.
func replayKeys(ctx context.Context, s *app.Session, keys string) error {
	r := key.NewReader(strings.NewReader(keys))
	for {
		ev, err := r.ReadEvent()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		err = s.HandleKey(ev)
		if errors.Is(err, app.ErrQuit) || errors.Is(err, app.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Redraw(ctx); err != nil {
			return err
		}
	}
}
