package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/reefline/internal/renderer/backend"
	"github.com/dshills/reefline/internal/renderer/layout"
)

var unescaper = strings.NewReplacer(
	`\\`, `\`,
	`\e`, "\x1b",
	`\x1b`, "\x1b",
	`\033`, "\x1b",
	`\E`, "\x1b",
	`\a`, "\a",
	`\x07`, "\a",
)

// unescape expands the escape spellings shells use for ESC and BEL.
func unescape(s string) string {
	return unescaper.Replace(s)
}

func newEscapeLenCmd(a *App) *cobra.Command {
	var term string

	cmd := &cobra.Command{
		Use:   "escape-len <sequence>...",
		Short: "Report the length of the escape sequence at the start of each argument",
		Long: `Prints the length in runes of the escape sequence that starts each
argument, or 0 when it does not start with one. \e, \E, \033 and \x1b
spell ESC; \a and \x07 spell BEL.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if term == "" {
				term = a.cfg.Terminal.Term
			}
			caps, err := backend.LoadCapabilitiesOrBuiltin(term)
			if err != nil {
				a.log.Warn("terminfo: %v, using built-in capabilities", err)
			}
			cache := layout.NewCache()
			cache.SetVisualSequences(caps.VisualSequences())

			out := cmd.OutOrStdout()
			for _, arg := range args {
				n := cache.EscapeCodeLength([]rune(unescape(arg)))
				fmt.Fprintf(out, "%d\t%s\n", n, arg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&term, "term", "", "Terminal type whose capabilities are recognized")
	return cmd
}
