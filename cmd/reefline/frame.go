package main

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/reefline/internal/pager"
	"github.com/dshills/reefline/internal/screen"
)

// frame is one render request:
//
//	{
//	  "prompt": "$ ", "right_prompt": "[main]",
//	  "text": "git ch", "autosuggestion": "", "token": "ch",
//	  "completions": ["eckout", {"text": "erry-pick", "description": "Apply a commit"}],
//	  "keys": "\t", "width": 80, "height": 24
//	}
//
// Completions are strings or objects with text, description, replaces_line
// and suppress_prefix. Keys are raw terminal input replayed after the
// first draw.
type frame struct {
	Prompt      *string
	RightPrompt *string

	Text           string
	Autosuggestion string
	Token          string
	Completions    []pager.Completion

	Keys   string
	Width  int
	Height int
	Status int
	Cwd    string
}

var errInvalidJSON = errors.New("invalid JSON")

func parseFrame(data []byte) (*frame, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("frame must be an object, got %s", root.Type)
	}

	f := &frame{
		Text:           root.Get("text").String(),
		Autosuggestion: root.Get("autosuggestion").String(),
		Token:          root.Get("token").String(),
		Keys:           root.Get("keys").String(),
		Width:          int(root.Get("width").Int()),
		Height:         int(root.Get("height").Int()),
		Status:         int(root.Get("status").Int()),
		Cwd:            root.Get("cwd").String(),
	}
	if v := root.Get("prompt"); v.Exists() {
		s := v.String()
		f.Prompt = &s
	}
	if v := root.Get("right_prompt"); v.Exists() {
		s := v.String()
		f.RightPrompt = &s
	}
	if f.Width < 0 || f.Height < 0 {
		return nil, fmt.Errorf("negative size %dx%d", f.Width, f.Height)
	}

	var err error
	root.Get("completions").ForEach(func(i, v gjson.Result) bool {
		var c pager.Completion
		c, err = parseCompletion(v)
		if err != nil {
			err = fmt.Errorf("completions[%d]: %w", i.Int(), err)
			return false
		}
		f.Completions = append(f.Completions, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func parseCompletion(v gjson.Result) (pager.Completion, error) {
	switch {
	case v.Type == gjson.String:
		return pager.Completion{Text: v.String()}, nil
	case v.IsObject():
		c := pager.Completion{
			Text:        v.Get("text").String(),
			Description: v.Get("description").String(),
		}
		if v.Get("replaces_line").Bool() {
			c.Flags |= pager.FlagReplacesLine
		}
		if v.Get("suppress_prefix").Bool() {
			c.Flags |= pager.FlagSuppressPrefix
		}
		return c, nil
	default:
		return pager.Completion{}, fmt.Errorf("expected string or object, got %s", v.Type)
	}
}

// commandLine is the typed text followed by the autosuggestion, with the
// cursor at the end of the typed part.
func (f *frame) commandLine() screen.CommandLine {
	explicit := len([]rune(f.Text))
	return screen.CommandLine{
		Text:          f.Text + f.Autosuggestion,
		ExplicitLen:   explicit,
		SuggestionLen: len([]rune(f.Autosuggestion)),
		Cursor:        explicit,
	}
}
