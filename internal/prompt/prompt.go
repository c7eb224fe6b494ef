// Package prompt produces the left and right prompt strings.
//
// A Provider is asked for both prompts before every redraw. Static returns
// fixed text; LuaProvider runs functions from a Lua script, which may use
// set_color to embed color escapes. The returned strings go straight to
// the screen, which measures them with escape sequences excluded.
package prompt

import "context"

// Context is what a provider may base the prompt on.
type Context struct {
	// Width is the terminal width in cells.
	Width int
	// Status is the exit status of the last command.
	Status int
	Cwd    string
}

// Provider computes prompts.
type Provider interface {
	Prompt(ctx context.Context, pc Context) (left, right string, err error)
}

// Static is a Provider with fixed prompts.
type Static struct {
	Left  string
	Right string
}

// Prompt implements Provider.
func (s Static) Prompt(context.Context, Context) (string, string, error) {
	return s.Left, s.Right, nil
}
