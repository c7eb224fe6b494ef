package backend

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/dshills/reefline/internal/renderer/highlight"
)

// ColorMode is a user override for color support detection.
type ColorMode string

const (
	ColorModeAuto    ColorMode = "auto"
	ColorMode16      ColorMode = "16"
	ColorMode256     ColorMode = "256"
	ColorModeTrue    ColorMode = "24bit"
	ColorModeNoColor ColorMode = "none"
)

// ParseColorMode parses a color mode name. The empty string is auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorModeAuto, nil
	case "16", "ansi":
		return ColorMode16, nil
	case "256", "ansi256":
		return ColorMode256, nil
	case "24bit", "truecolor", "true":
		return ColorModeTrue, nil
	case "none", "ascii":
		return ColorModeNoColor, nil
	}
	return "", fmt.Errorf("unknown color mode %q", s)
}

// SupportForProfile maps a termenv profile onto color support bits.
func SupportForProfile(p termenv.Profile) highlight.ColorSupport {
	switch p {
	case termenv.TrueColor:
		return highlight.Support256 | highlight.Support24Bit
	case termenv.ANSI256:
		return highlight.Support256
	}
	return 0
}

// DetectColorSupport inspects the environment (COLORTERM, TERM, NO_COLOR and
// the CLICOLOR family) for the terminal behind w. A mode other than auto
// wins over detection.
func DetectColorSupport(w io.Writer, mode ColorMode) highlight.ColorSupport {
	switch mode {
	case ColorMode16, ColorModeNoColor:
		return 0
	case ColorMode256:
		return highlight.Support256
	case ColorModeTrue:
		return highlight.Support256 | highlight.Support24Bit
	}
	return SupportForProfile(termenv.NewOutput(w).EnvColorProfile())
}
