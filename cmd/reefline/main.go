// Command reefline draws prompts, command lines and completion pagers
// with a minimal-update terminal screen.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/reefline/internal/app"
)

// Version information (set by build flags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps its error to an exit code.
func run() int {
	err := NewRootCmd().Execute()
	switch {
	case err == nil, errors.Is(err, app.ErrQuit):
		return 0
	case errors.Is(err, app.ErrCanceled):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}
