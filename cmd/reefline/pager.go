package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/dshills/reefline/internal/app"
	"github.com/dshills/reefline/internal/config"
	"github.com/dshills/reefline/internal/pager"
	"github.com/dshills/reefline/internal/renderer/backend"
)

type pagerOptions struct {
	Line  string
	Token string
	Frame string
}

func newPagerCmd(a *App) *cobra.Command {
	opts := &pagerOptions{}

	cmd := &cobra.Command{
		Use:   "pager [completion...]",
		Short: "Choose a completion interactively",
		Long: `Shows the completions in a pager below the command line. Arrow keys,
Tab and Page Up/Down move the selection, typing filters, Enter accepts and
Escape or Ctrl-C cancels. The accepted command line is printed to stdout;
the pager itself is drawn on stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, token := opts.Line, opts.Token
			if line == "" {
				line = token
			}
			var list []pager.Completion
			if opts.Frame != "" {
				data, err := readInput(cmd.InOrStdin(), opts.Frame)
				if err != nil {
					return err
				}
				f, err := parseFrame(data)
				if err != nil {
					return fmt.Errorf("%s: %w", opts.Frame, err)
				}
				if f.Text != "" {
					line, token = f.Text, f.Token
				}
				list = f.Completions
			}
			for _, arg := range args {
				list = append(list, pager.Completion{Text: arg})
			}
			if len(list) == 0 {
				return errors.New("no completions")
			}

			text, err := runPager(cmd.Context(), a, line, token, list)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Line, "line", "", "Command line being completed (default: the token)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Token at the end of the line that the completions extend")
	cmd.Flags().StringVar(&opts.Frame, "frame", "", "Read the line, token and completions from a frame JSON file")
	return cmd
}

// runPager runs an interactive session on the controlling terminal and
// returns the accepted command line.
func runPager(ctx context.Context, a *App, line, token string, list []pager.Completion) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stderr.Fd()) {
		return "", fmt.Errorf("pager: stdin and stderr: %w", app.ErrNotTerminal)
	}

	term := app.NewTerminal(os.Stdin, os.Stderr)
	if err := term.MakeRaw(); err != nil {
		return "", err
	}
	defer term.Restore()

	s, err := app.NewSession(app.Options{
		Config:            a.cfg,
		Out:               term.Out,
		Size:              term.Size,
		TranslatesNewline: term.TranslatesNewline(),
		Status:            backend.NewStatusTracker(),
		Logger:            a.log,
	})
	if err != nil {
		return "", err
	}
	defer s.Close()

	if cwd, err := os.Getwd(); err == nil {
		s.SetCwd(cwd)
	}
	s.Complete(line, token, list)

	if path := a.configPath(); path != "" {
		if err := s.WatchConfig(path, config.Load); err != nil {
			s.Logger().Warn("watch %s: %v", path, err)
		}
	}

	resize := make(chan os.Signal, 1)
	signal.Notify(resize, unix.SIGWINCH)
	defer signal.Stop(resize)

	ctx, stop := signal.NotifyContext(ctx, unix.SIGTERM, unix.SIGHUP)
	defer stop()

	runErr := s.Run(ctx, term.In, resize)
	if err := s.Finish(context.Background()); err != nil {
		s.Logger().Warn("finish: %v", err)
	}
	m := s.Metrics().Snapshot()
	s.Logger().Info("pager done: keys=%d redraws=%d avg=%s bytes=%d", m.Keys, m.Redraws, m.AvgRedraw, m.BytesWritten)

	if !errors.Is(runErr, app.ErrQuit) {
		return "", runErr
	}
	return s.CommandLine().Text, nil
}
