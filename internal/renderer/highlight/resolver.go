package highlight

import (
	"os"
	"strings"
)

// Vars looks up palette variables.
type Vars interface {
	Get(name string) (string, bool)
}

// MapVars is a Vars backed by a map.
type MapVars map[string]string

// Get implements Vars.
func (m MapVars) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// EnvVars reads palette variables from the process environment.
type EnvVars struct{}

// Get implements Vars.
func (EnvVars) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// LayeredVars consults each Vars in order and returns the first hit.
type LayeredVars []Vars

// Get implements Vars.
func (l LayeredVars) Get(name string) (string, bool) {
	for _, v := range l {
		if v == nil {
			continue
		}
		if s, ok := v.Get(name); ok {
			return s, true
		}
	}
	return "", false
}

func getUnlessEmpty(vars Vars, name string) (string, bool) {
	s, ok := vars.Get(name)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Style is one parsed palette entry such as "red --bold --background=blue".
type Style struct {
	FG    Color
	BG    Color
	Attrs Attr
}

// ParseStyle parses a palette value. Several colors may be listed; the
// best one for the terminal's color support is chosen.
func ParseStyle(value string, support ColorSupport) Style {
	var fgs, bgs []Color
	var attrs Attr

	fields := strings.Fields(value)
	for i := 0; i < len(fields); i++ {
		arg := fields[i]
		switch {
		case strings.HasPrefix(arg, "--background="):
			if c, ok := ParseColorName(strings.TrimPrefix(arg, "--background=")); ok {
				bgs = append(bgs, c)
			}
		case arg == "--background" || arg == "-b":
			if i+1 < len(fields) {
				i++
				if c, ok := ParseColorName(fields[i]); ok {
					bgs = append(bgs, c)
				}
			}
		case arg == "--bold":
			attrs |= AttrBold
		case arg == "--underline":
			attrs |= AttrUnderline
		case arg == "--italics":
			attrs |= AttrItalics
		case arg == "--dim":
			attrs |= AttrDim
		case arg == "--reverse":
			attrs |= AttrReverse
		case strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--"):
			for _, flag := range arg[1:] {
				switch flag {
				case 'o':
					attrs |= AttrBold
				case 'u':
					attrs |= AttrUnderline
				case 'i':
					attrs |= AttrItalics
				case 'd':
					attrs |= AttrDim
				case 'r':
					attrs |= AttrReverse
				}
			}
		default:
			if c, ok := ParseColorName(arg); ok {
				fgs = append(fgs, c)
			}
		}
	}

	style := Style{FG: ColorNormal, BG: ColorNormal, Attrs: attrs}
	if c, ok := BestColor(fgs, support); ok {
		style.FG = c
	}
	if c, ok := BestColor(bgs, support); ok {
		style.BG = c
	}
	return style
}

// Resolver turns highlight specs into text faces using palette variables.
// Lookups are cached until Reset; callers reset once per redraw so palette
// changes are picked up.
type Resolver struct {
	vars    Vars
	support ColorSupport
	fgCache map[Spec]Style
	bgCache map[Spec]Color
}

// NewResolver creates a resolver reading from vars.
func NewResolver(vars Vars, support ColorSupport) *Resolver {
	if vars == nil {
		vars = MapVars{}
	}
	return &Resolver{
		vars:    vars,
		support: support,
		fgCache: make(map[Spec]Style),
		bgCache: make(map[Spec]Color),
	}
}

// SetVars replaces the palette source and clears the caches.
func (r *Resolver) SetVars(vars Vars) {
	if vars == nil {
		vars = MapVars{}
	}
	r.vars = vars
	r.Reset()
}

// SetSupport changes the color support and clears the caches.
func (r *Resolver) SetSupport(support ColorSupport) {
	r.support = support
	r.Reset()
}

// Support returns the color support used for parsing.
func (r *Resolver) Support() ColorSupport {
	return r.support
}

// Reset drops all cached lookups.
func (r *Resolver) Reset() {
	clear(r.fgCache)
	clear(r.bgCache)
}

// Resolve returns the face for spec.
func (r *Resolver) Resolve(spec Spec) TextFace {
	fg := r.foreground(spec)
	return TextFace{FG: fg.FG, BG: r.background(spec), Attrs: fg.Attrs}
}

func (r *Resolver) foreground(spec Spec) Style {
	if s, ok := r.fgCache[spec]; ok {
		return s
	}
	s := r.resolveForeground(spec)
	r.fgCache[spec] = s
	return s
}

func (r *Resolver) background(spec Spec) Color {
	if c, ok := r.bgCache[spec]; ok {
		return c
	}
	c := r.lookup(spec.Background).BG
	r.bgCache[spec] = c
	return c
}

// lookup reads the variable for role, then its fallback, then normal.
func (r *Resolver) lookup(role Role) Style {
	value, ok := getUnlessEmpty(r.vars, role.VarName())
	if !ok {
		value, ok = getUnlessEmpty(r.vars, role.Fallback().VarName())
	}
	if !ok {
		value, ok = r.vars.Get(RoleNormal.VarName())
	}
	if !ok {
		return Style{FG: ColorNormal, BG: ColorNormal}
	}
	return ParseStyle(value, r.support)
}

func (r *Resolver) resolveForeground(spec Spec) Style {
	result := r.lookup(spec.Foreground)

	if spec.ValidPath {
		if value, ok := r.vars.Get(ValidPathVar); ok {
			vp := ParseStyle(value, r.support)
			switch {
			case result.FG.IsNormal():
				result.FG = vp.FG
				result.Attrs = vp.Attrs
			case !vp.FG.IsNormal():
				result.FG = vp.FG
				result.Attrs |= vp.Attrs
			default:
				result.Attrs |= vp.Attrs
			}
		}
	}

	if spec.ForceUnderline {
		result.Attrs |= AttrUnderline
	}
	return result
}
