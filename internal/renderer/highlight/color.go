package highlight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorKind distinguishes the special colors from palette and RGB colors.
type ColorKind uint8

const (
	// KindNormal is the terminal's default color.
	KindNormal ColorKind = iota
	// KindReset forces a full attribute reset.
	KindReset
	// KindNone leaves the current color untouched.
	KindNone
	// KindNamed is one of the 16 palette colors.
	KindNamed
	// KindRGB is a 24-bit color.
	KindRGB
)

// Color represents a color value.
// Supports true color (RGB) and the 16 named palette colors.
type Color struct {
	Kind ColorKind
	// Index is the palette slot when Kind is KindNamed.
	Index   uint8
	R, G, B uint8
}

// Special colors.
var (
	ColorNormal = Color{Kind: KindNormal}
	ColorReset  = Color{Kind: KindReset}
	ColorNone   = Color{Kind: KindNone}
	ColorBlack  = Color{Kind: KindNamed, Index: 0}
	ColorWhite  = Color{Kind: KindNamed, Index: 7}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{Kind: KindRGB, R: r, G: g, B: b}
}

// ColorFromIndex creates a named palette color. Index should be 0-15.
func ColorFromIndex(index uint8) Color {
	return Color{Kind: KindNamed, Index: index}
}

type namedColor struct {
	name   string
	index  uint8
	hidden bool
}

// Sorted by name for binary search.
var namedColors = []namedColor{
	{"black", 0, false},
	{"blue", 4, false},
	{"brblack", 8, false},
	{"brblue", 12, false},
	{"brbrown", 11, true},
	{"brcyan", 14, false},
	{"brgreen", 10, false},
	{"brgrey", 8, true},
	{"brmagenta", 13, false},
	{"brown", 3, true},
	{"brpurple", 13, true},
	{"brred", 9, false},
	{"brwhite", 15, false},
	{"bryellow", 11, false},
	{"cyan", 6, false},
	{"green", 2, false},
	{"grey", 7, true},
	{"magenta", 5, false},
	{"purple", 5, true},
	{"red", 1, false},
	{"white", 7, false},
	{"yellow", 3, false},
}

// NamedColorNames returns the public color names in alphabetical order.
func NamedColorNames() []string {
	names := make([]string, 0, len(namedColors))
	for _, c := range namedColors {
		if !c.hidden {
			names = append(names, c.name)
		}
	}
	return names
}

// ParseColorName parses "normal", "reset", a named color, or a hex color
// ("#RGB", "#RRGGBB", "RGB", "RRGGBB"). Matching is case insensitive.
func ParseColorName(s string) (Color, bool) {
	lower := strings.ToLower(s)
	switch lower {
	case "normal":
		return ColorNormal, true
	case "reset":
		return ColorReset, true
	}

	i := sort.Search(len(namedColors), func(i int) bool {
		return namedColors[i].name >= lower
	})
	if i < len(namedColors) && namedColors[i].name == lower {
		return ColorFromIndex(namedColors[i].index), true
	}

	return parseHex(s)
}

func parseHex(s string) (Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return Color{}, false
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return Color{}, false
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), true
}

// IsNormal reports whether c is the default color.
func (c Color) IsNormal() bool { return c.Kind == KindNormal }

// IsReset reports whether c forces a reset.
func (c Color) IsReset() bool { return c.Kind == KindReset }

// IsNone reports whether c leaves the current color untouched.
func (c Color) IsNone() bool { return c.Kind == KindNone }

// IsSpecial reports whether c is one of normal, reset or none.
func (c Color) IsSpecial() bool {
	return c.Kind == KindNormal || c.Kind == KindReset || c.Kind == KindNone
}

// IsNamed reports whether c is a palette color.
func (c Color) IsNamed() bool { return c.Kind == KindNamed }

// IsRGB reports whether c is a 24-bit color.
func (c Color) IsRGB() bool { return c.Kind == KindRGB }

// IsGrayscale reports whether an RGB color has equal components.
func (c Color) IsGrayscale() bool {
	return c.Kind == KindRGB && c.R == c.G && c.G == c.B
}

// Equals returns true if two colors are identical.
func (c Color) Equals(other Color) bool {
	return c == other
}

// String returns a string representation of the color.
func (c Color) String() string {
	switch c.Kind {
	case KindNormal:
		return "normal"
	case KindReset:
		return "reset"
	case KindNone:
		return "none"
	case KindNamed:
		for _, n := range namedColors {
			if n.index == c.Index && !n.hidden {
				return n.name
			}
		}
		return fmt.Sprintf("color(%d)", c.Index)
	default:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
}

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrUnderline
	AttrItalics
	AttrDim
	AttrReverse
)

// Has reports whether all bits of o are set.
func (a Attr) Has(o Attr) bool { return a&o == o }

// TextFace is a fully resolved foreground, background and attribute set.
type TextFace struct {
	FG    Color
	BG    Color
	Attrs Attr
}

// DefaultFace is normal colors with no attributes.
var DefaultFace = TextFace{FG: ColorNormal, BG: ColorNormal}

// IsBold etc. report individual attributes.
func (f TextFace) IsBold() bool      { return f.Attrs.Has(AttrBold) }
func (f TextFace) IsUnderline() bool { return f.Attrs.Has(AttrUnderline) }
func (f TextFace) IsItalics() bool   { return f.Attrs.Has(AttrItalics) }
func (f TextFace) IsDim() bool       { return f.Attrs.Has(AttrDim) }
func (f TextFace) IsReverse() bool   { return f.Attrs.Has(AttrReverse) }
