package highlight

// Spec is the per-character highlight attribute handed to the screen.
// It is comparable and used as a map key by the resolver cache.
type Spec struct {
	Foreground     Role
	Background     Role
	ValidPath      bool
	ForceUnderline bool
}

// Normal is the zero Spec.
var Normal = Spec{}

// WithFG returns a spec with the given foreground and a normal background.
func WithFG(fg Role) Spec {
	return Spec{Foreground: fg}
}

// WithBG returns a spec with a normal foreground and the given background.
func WithBG(bg Role) Spec {
	return Spec{Background: bg}
}

// WithFGBG returns a spec with both roles set.
func WithFGBG(fg, bg Role) Spec {
	return Spec{Foreground: fg, Background: bg}
}

// WithBoth uses role for foreground and background.
func WithBoth(role Role) Spec {
	return Spec{Foreground: role, Background: role}
}
