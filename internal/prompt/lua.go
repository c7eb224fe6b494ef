package prompt

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Names of the script functions.
const (
	LeftPromptFunc  = "left_prompt"
	RightPromptFunc = "right_prompt"
)

// DefaultTimeout bounds one prompt evaluation.
const DefaultTimeout = 250 * time.Millisecond

// ColorFunc renders a color spec in the fish_color_* syntax, e.g.
// "red --bold", as escape sequences for the current terminal.
type ColorFunc func(spec string) string

// LuaOptions configures a LuaProvider.
type LuaOptions struct {
	SetColor ColorFunc
	// Timeout bounds each call, 0 uses DefaultTimeout.
	Timeout time.Duration
}

// LuaProvider runs left_prompt and, if defined, right_prompt from a Lua
// script. The script sees a global table reefline with the fields width,
// status and cwd, and a function set_color(spec).
//
// Only the base, table, string and math libraries are opened.
type LuaProvider struct {
	mu     sync.Mutex
	L      *lua.LState
	name   string
	opts   LuaOptions
	env    *lua.LTable
	closed bool
}

// NewLuaProvider loads the script at path.
func NewLuaProvider(path string, opts LuaOptions) (*LuaProvider, error) {
	return newLuaProvider(path, opts, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// NewLuaProviderFromString loads a script from source; name is used in
// error messages.
func NewLuaProviderFromString(name, source string, opts LuaOptions) (*LuaProvider, error) {
	return newLuaProvider(name, opts, func(L *lua.LState) error {
		return L.DoString(source)
	})
}

func newLuaProvider(name string, opts LuaOptions, load func(*lua.LState) error) (*LuaProvider, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	p := &LuaProvider{L: L, name: name, opts: opts}
	p.env = L.NewTable()
	L.SetField(p.env, "set_color", L.NewFunction(p.luaSetColor))
	L.SetGlobal("reefline", p.env)
	L.SetGlobal("set_color", L.NewFunction(p.luaSetColor))

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	L.SetContext(ctx)
	err := load(L)
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, &ScriptError{Script: name, Err: err}
	}

	if L.GetGlobal(LeftPromptFunc).Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoPromptFunction)
	}
	return p, nil
}

// Prompt implements Provider. A missing right_prompt yields "".
func (p *LuaProvider) Prompt(ctx context.Context, pc Context) (string, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return "", "", ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()
	p.L.SetContext(ctx)
	defer p.L.RemoveContext()

	p.L.SetField(p.env, "width", lua.LNumber(pc.Width))
	p.L.SetField(p.env, "status", lua.LNumber(pc.Status))
	p.L.SetField(p.env, "cwd", lua.LString(pc.Cwd))

	left, err := p.call(LeftPromptFunc)
	if err != nil {
		return "", "", err
	}
	right, err := p.call(RightPromptFunc)
	if err != nil {
		return "", "", err
	}
	return left, right, nil
}

// call runs a global function and returns its result as a string.
// Undefined functions return "".
func (p *LuaProvider) call(name string) (string, error) {
	fn := p.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return "", nil
	}

	if err := p.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return "", &ScriptError{Script: p.name, Func: name, Err: err}
	}
	ret := p.L.Get(-1)
	p.L.Pop(1)

	switch v := ret.(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return v.String(), nil
	case *lua.LNilType:
		return "", nil
	}
	return "", &ScriptError{Script: p.name, Func: name, Err: fmt.Errorf("returned %s, expected a string", ret.Type())}
}

func (p *LuaProvider) luaSetColor(L *lua.LState) int {
	spec := L.CheckString(1)
	if p.opts.SetColor == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(p.opts.SetColor(spec)))
	return 1
}

// Close releases the Lua state.
func (p *LuaProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		p.L.Close()
	}
}
