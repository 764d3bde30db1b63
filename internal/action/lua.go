package action

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vselect/internal/engine/buffer"
)

// DefaultLuaTimeout bounds a single Lua motion call.
const DefaultLuaTimeout = time.Second

// luaEntry is the global function a motion script must define.
const luaEntry = "motion"

// Lua motion errors.
var (
	ErrLuaClosed     = errors.New("lua motion is closed")
	ErrLuaNoEntry    = errors.New("lua motion script does not define motion()")
	ErrLuaBadResults = errors.New("lua motion must return line and column numbers")
)

// LuaAction is a motion implemented in Lua. The script defines
//
//	function motion(line, col, count, text) return line, col end
//
// where text is the current line. Positions are zero-based and the result
// is clamped to the buffer.
//
// gopher-lua states are not goroutine-safe; calls are serialized.
type LuaAction struct {
	name    string
	timeout time.Duration

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// LuaOption configures a LuaAction.
type LuaOption func(*LuaAction)

// WithLuaTimeout sets the per-call timeout.
func WithLuaTimeout(d time.Duration) LuaOption {
	return func(a *LuaAction) {
		a.timeout = d
	}
}

// LoadLuaFile creates a Lua motion from a script file.
func LoadLuaFile(name, path string, opts ...LuaOption) (*LuaAction, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lua motion %s: %w", name, err)
	}
	return NewLuaAction(name, string(src), opts...)
}

// NewLuaAction creates a Lua motion from source.
func NewLuaAction(name, source string, opts ...LuaOption) (*LuaAction, error) {
	a := &LuaAction{
		name:    name,
		timeout: DefaultLuaTimeout,
		L:       newSandboxedState(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.L.DoString(source); err != nil {
		a.L.Close()
		return nil, fmt.Errorf("lua motion %s: %w", name, err)
	}
	if a.L.GetGlobal(luaEntry).Type() != lua.LTFunction {
		a.L.Close()
		return nil, fmt.Errorf("lua motion %s: %w", name, ErrLuaNoEntry)
	}
	return a, nil
}

// newSandboxedState opens only the base, table, string and math libraries.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Name returns "lua.<name>".
func (a *LuaAction) Name() string { return "lua." + a.name }

// ExecAction calls motion() with the cursor position.
func (a *LuaAction) ExecAction(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return pos, ErrLuaClosed
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	a.L.SetContext(ctx)
	defer a.L.RemoveContext()

	buf := env.Buffer()
	top := a.L.GetTop()
	err := a.L.CallByParam(lua.P{
		Fn:      a.L.GetGlobal(luaEntry),
		NRet:    2,
		Protect: true,
	},
		lua.LNumber(pos.Line),
		lua.LNumber(pos.Column),
		lua.LNumber(env.Count()),
		lua.LString(buf.Line(pos.Line)),
	)
	if err != nil {
		a.L.SetTop(top)
		return pos, fmt.Errorf("%s: %w", a.Name(), err)
	}

	line, lok := a.L.Get(-2).(lua.LNumber)
	col, cok := a.L.Get(-1).(lua.LNumber)
	a.L.SetTop(top)
	if !lok || !cok {
		return pos, fmt.Errorf("%s: %w", a.Name(), ErrLuaBadResults)
	}

	return clampPoint(buf, buffer.Point{
		Line:   nonNegative(line),
		Column: nonNegative(col),
	}), nil
}

// nonNegative converts n to a coordinate, saturating at both ends.
// NaN maps to 0.
func nonNegative(n lua.LNumber) uint32 {
	switch f := float64(n); {
	case math.IsNaN(f), f < 0:
		return 0
	case f >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(f)
	}
}

// Close releases the Lua state.
func (a *LuaAction) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.L.Close()
	a.closed = true
	return nil
}
