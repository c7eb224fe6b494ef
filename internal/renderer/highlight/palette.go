package highlight

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorSupport describes which color encodings the terminal understands.
type ColorSupport uint8

const (
	Support256 ColorSupport = 1 << iota
	Support24Bit
)

// Has reports whether all bits of o are set.
func (s ColorSupport) Has(o ColorSupport) bool { return s&o == o }

var (
	paletteOnce sync.Once
	palette     [256]colorful.Color
)

// loadPalette fills the xterm palette from tcell's color table.
func loadPalette() {
	for i := range palette {
		r, g, b := tcell.PaletteColor(i).RGB()
		palette[i] = colorful.Color{
			R: float64(r) / 255,
			G: float64(g) / 255,
			B: float64(b) / 255,
		}
	}
}

func nearest(c Color, from, to int) int {
	paletteOnce.Do(loadPalette)
	target := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	best := from
	bestDist := target.DistanceRgb(palette[from])
	for i := from + 1; i < to; i++ {
		if d := target.DistanceRgb(palette[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Nearest256 returns the closest slot in the 6x6x6 cube and gray ramp (16-255).
func Nearest256(c Color) uint8 {
	return uint8(nearest(c, 16, 256))
}

// Nearest16 returns the closest of the 16 base colors.
func Nearest16(c Color) uint8 {
	return uint8(nearest(c, 0, 16))
}

// IndexFor returns the palette index used to draw c on a terminal without
// 24-bit support.
func IndexFor(c Color, support ColorSupport) uint8 {
	if c.IsNamed() {
		return c.Index
	}
	if support.Has(Support256) {
		return Nearest256(c)
	}
	return Nearest16(c)
}

// BestColor picks among candidate colors: RGB when the terminal has 256
// colors (or no named candidate exists), otherwise the first named color.
func BestColor(candidates []Color, support ColorSupport) (Color, bool) {
	if len(candidates) == 0 {
		return Color{}, false
	}
	var firstRGB, firstNamed *Color
	for i := range candidates {
		c := &candidates[i]
		if firstRGB == nil && c.IsRGB() {
			firstRGB = c
		}
		if firstNamed == nil && c.IsNamed() {
			firstNamed = c
		}
	}
	if firstRGB != nil && (support.Has(Support256) || firstNamed == nil) {
		return *firstRGB, true
	}
	if firstNamed != nil {
		return *firstNamed, true
	}
	return candidates[0], true
}
