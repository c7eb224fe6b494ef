package highlight

import "testing"

func TestParseColorName(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"normal", ColorNormal, true},
		{"reset", ColorReset, true},
		{"red", ColorFromIndex(1), true},
		{"BrRed", ColorFromIndex(9), true},
		{"grey", ColorFromIndex(7), true},
		{"ff0000", ColorFromRGB(255, 0, 0), true},
		{"#00ff00", ColorFromRGB(0, 255, 0), true},
		{"#fff", ColorFromRGB(255, 255, 255), true},
		{"chartreuse", Color{}, false},
		{"#ff00", Color{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseColorName(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseColorName(%q): expected ok=%v, got %v", tt.in, tt.ok, ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseColorName(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNamedColorNamesHidesAliases(t *testing.T) {
	for _, name := range NamedColorNames() {
		switch name {
		case "grey", "brgrey", "purple", "brpurple", "brown", "brbrown":
			t.Errorf("expected alias %q to be hidden", name)
		}
	}
}

func TestNearest(t *testing.T) {
	if got := Nearest256(ColorFromRGB(255, 0, 0)); got != 196 {
		t.Errorf("expected 196 for pure red, got %d", got)
	}
	if got := Nearest16(ColorFromRGB(255, 0, 0)); got != 9 {
		t.Errorf("expected 9 for pure red, got %d", got)
	}
	if got := IndexFor(ColorFromIndex(3), Support256); got != 3 {
		t.Errorf("expected named index to pass through, got %d", got)
	}
}

func TestBestColor(t *testing.T) {
	rgb := ColorFromRGB(1, 2, 3)
	named := ColorFromIndex(4)

	if _, ok := BestColor(nil, Support256); ok {
		t.Error("expected no color from empty candidates")
	}
	if got, _ := BestColor([]Color{named, rgb}, Support256); got != rgb {
		t.Errorf("expected RGB with 256 colors, got %v", got)
	}
	if got, _ := BestColor([]Color{rgb, named}, 0); got != named {
		t.Errorf("expected named without 256 colors, got %v", got)
	}
	if got, _ := BestColor([]Color{rgb}, 0); got != rgb {
		t.Errorf("expected lone RGB, got %v", got)
	}
}

func TestParseStyle(t *testing.T) {
	s := ParseStyle("red --bold -u --background=blue", Support256)
	if s.FG != ColorFromIndex(1) {
		t.Errorf("expected red foreground, got %v", s.FG)
	}
	if s.BG != ColorFromIndex(4) {
		t.Errorf("expected blue background, got %v", s.BG)
	}
	if !s.Attrs.Has(AttrBold | AttrUnderline) {
		t.Errorf("expected bold and underline, got %b", s.Attrs)
	}

	s = ParseStyle("-b green -ri", Support256)
	if !s.FG.IsNormal() {
		t.Errorf("expected normal foreground, got %v", s.FG)
	}
	if s.BG != ColorFromIndex(2) {
		t.Errorf("expected green background, got %v", s.BG)
	}
	if !s.Attrs.Has(AttrReverse|AttrItalics) || s.Attrs.Has(AttrBold) {
		t.Errorf("expected reverse and italics only, got %b", s.Attrs)
	}
}

func TestPagerVariant(t *testing.T) {
	tests := []struct {
		base                Role
		selected, secondary bool
		want                Role
	}{
		{RolePagerCompletion, false, false, RolePagerCompletion},
		{RolePagerCompletion, false, true, RolePagerSecondaryCompletion},
		{RolePagerCompletion, true, true, RolePagerSelectedCompletion},
		{RolePagerBackground, true, false, RolePagerSelectedBackground},
		{RolePagerProgress, true, true, RolePagerProgress},
	}
	for _, tt := range tests {
		if got := PagerVariant(tt.base, tt.selected, tt.secondary); got != tt.want {
			t.Errorf("PagerVariant(%v, %v, %v): expected %v, got %v",
				tt.base, tt.selected, tt.secondary, tt.want, got)
		}
	}
}

func TestResolverFallback(t *testing.T) {
	vars := MapVars{
		"fish_color_normal":  "white",
		"fish_color_command": "blue --bold",
		"fish_color_keyword": "",
	}
	r := NewResolver(vars, Support256)

	face := r.Resolve(WithFG(RoleKeyword))
	if face.FG != ColorFromIndex(4) || !face.IsBold() {
		t.Errorf("expected keyword to fall back to command, got %+v", face)
	}

	face = r.Resolve(WithFG(RoleError))
	if face.FG != ColorFromIndex(7) {
		t.Errorf("expected error to fall back to normal, got %+v", face)
	}
}

func TestResolverBackgroundAndModifiers(t *testing.T) {
	vars := MapVars{
		"fish_color_param":            "cyan",
		"fish_color_valid_path":       "--underline",
		"fish_pager_color_background": "--background=black",
	}
	r := NewResolver(vars, Support256)

	face := r.Resolve(Spec{Foreground: RoleParam, ValidPath: true})
	if face.FG != ColorFromIndex(6) || !face.IsUnderline() {
		t.Errorf("expected underlined cyan, got %+v", face)
	}

	face = r.Resolve(Spec{Foreground: RoleNormal, Background: RolePagerBackground, ForceUnderline: true})
	if face.BG != ColorBlack {
		t.Errorf("expected black background, got %v", face.BG)
	}
	if !face.IsUnderline() {
		t.Error("expected forced underline")
	}
}

func TestResolverReset(t *testing.T) {
	vars := MapVars{"fish_color_error": "red"}
	r := NewResolver(vars, Support256)

	if got := r.Resolve(WithFG(RoleError)).FG; got != ColorFromIndex(1) {
		t.Fatalf("expected red, got %v", got)
	}
	vars["fish_color_error"] = "green"
	if got := r.Resolve(WithFG(RoleError)).FG; got != ColorFromIndex(1) {
		t.Errorf("expected cached red before reset, got %v", got)
	}
	r.Reset()
	if got := r.Resolve(WithFG(RoleError)).FG; got != ColorFromIndex(2) {
		t.Errorf("expected green after reset, got %v", got)
	}
}

func TestLayeredVars(t *testing.T) {
	vars := LayeredVars{nil, MapVars{"a": "1"}, MapVars{"a": "2", "b": "3"}}
	if v, _ := vars.Get("a"); v != "1" {
		t.Errorf("expected first layer to win, got %q", v)
	}
	if v, _ := vars.Get("b"); v != "3" {
		t.Errorf("expected later layer value, got %q", v)
	}
	if _, ok := vars.Get("c"); ok {
		t.Error("expected missing key")
	}
}
