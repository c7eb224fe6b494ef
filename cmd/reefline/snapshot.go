package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/reefline/internal/pager"
)

type snapshotOptions struct {
	Width    int
	Height   int
	Token    string
	Selected int
	Search   string
	Frame    string
	Compact  bool
}

func newSnapshotCmd(a *App) *cobra.Command {
	opts := &snapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot [completion...]",
		Short: "Print the completion grid layout as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
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
				list = f.Completions
				if opts.Token == "" {
					opts.Token = f.Token
				}
			}
			for _, arg := range args {
				list = append(list, pager.Completion{Text: arg})
			}

			p := pager.New(a.cfg.PagerOptions())
			out, err := snapshot(p, opts, list)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", defaultWidth, "Terminal width")
	cmd.Flags().IntVar(&opts.Height, "height", defaultHeight, "Terminal height")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Prefix drawn in front of each completion")
	cmd.Flags().IntVar(&opts.Selected, "selected", -1, "Index of the selected completion; -1 for none")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Show the search field with this filter text")
	cmd.Flags().StringVar(&opts.Frame, "frame", "", "Read the token and completions from a frame JSON file")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "Print JSON on one line")
	return cmd
}

// snapshot renders list in p and encodes the resulting PageRendering.
func snapshot(p *pager.Pager, opts *snapshotOptions, list []pager.Completion) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", opts.Width, opts.Height)
	}
	p.SetPrefix(opts.Token, false)
	p.SetCompletions(list, true)
	p.SetTermSize(opts.Width, opts.Height)
	if opts.Search != "" {
		p.SetSearchFieldShown(true)
		p.SearchField().Insert(opts.Search)
		p.Refilter()
	}
	if opts.Selected >= 0 {
		if p.Len() == 0 {
			return nil, errors.New("nothing to select")
		}
		p.SetSelectedIndex(min(opts.Selected, p.Len()))
	}
	r := p.Render()

	lines := r.ScreenData.Strings()
	if lines == nil {
		lines = []string{}
	}
	fields := []struct {
		path  string
		value any
	}{
		{"width", r.TermWidth},
		{"height", r.TermHeight},
		{"rows", r.Rows},
		{"cols", r.Cols},
		{"row_start", r.RowStart},
		{"row_end", r.RowEnd},
		{"selected", r.Selected},
		{"remaining", r.RemainingToDisclose},
		{"search.shown", r.SearchFieldShown},
		{"search.text", r.SearchText},
		{"lines", lines},
	}

	out := []byte("{}")
	var err error
	for _, f := range fields {
		out, err = sjson.SetBytes(out, f.path, f.value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.path, err)
		}
	}
	if c, ok := p.SelectedCompletion(r); ok {
		if out, err = sjson.SetBytes(out, "selected_text", c.Text); err != nil {
			return nil, fmt.Errorf("encoding selected_text: %w", err)
		}
	}

	if opts.Compact {
		return append(pretty.Ugly(out), '\n'), nil
	}
	return pretty.Pretty(out), nil
}
