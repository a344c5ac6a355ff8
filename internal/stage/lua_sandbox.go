package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/flarebyte/sealcheck/internal/logger"
)

const (
	sandboxTimeoutViolation = "sandbox timeout"
	sandboxMemoryViolation  = "sandbox memory limit"

	luaRegistryMaxSize = 4096
)

// newSandboxLuaState returns a state with only the base, string, table and
// math libraries. io, os and package are never opened.
func newSandboxLuaState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  luaRegistryMaxSize,
		RegistryGrowStep: 32,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib(lua.BaseLibName, lua.OpenBase)
	openLib(lua.StringLibName, lua.OpenString)
	openLib(lua.TabLibName, lua.OpenTable)
	openLib(lua.MathLibName, lua.OpenMath)
	// base opens loaders that reach the filesystem
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// compileLua checks that code parses.
func compileLua(code string) error {
	L := newSandboxLuaState()
	defer L.Close()
	if _, err := L.LoadString(code); err != nil {
		return err
	}
	return nil
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "deadline") || strings.Contains(s, "context canceled")
}

// runLuaScriptWithSandbox evaluates code with the given globals and
// returns its first result. A non-empty violation reports a sandbox limit
// hit rather than a script error.
func runLuaScriptWithSandbox(ctx context.Context, timeout time.Duration, globals map[string]any, code string) (lua.LValue, string, error) {
	L := newSandboxLuaState()
	defer L.Close()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	L.SetContext(ctx)
	L.SetGlobal("print", L.NewFunction(luaPrintToLog(ctx)))

	for k, v := range globals {
		L.SetGlobal(k, toLValue(v))
	}

	fn, err := L.LoadString(code)
	if err != nil {
		return lua.LNil, "", err
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if ctx.Err() != nil && isTimeoutError(err) {
			return lua.LNil, sandboxTimeoutViolation, nil
		}
		if strings.Contains(strings.ToLower(err.Error()), "registry overflow") {
			return lua.LNil, sandboxMemoryViolation, nil
		}
		return lua.LNil, "", err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, "", nil
}

// luaPrintToLog replaces the base print, which writes to os.Stdout, with a
// debug event on the logger carried by ctx.
func luaPrintToLog(ctx context.Context) lua.LGFunction {
	log := logger.From(ctx)
	return func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		log.Debug().Str("source", "lua").Msg(strings.Join(parts, "\t"))
		return 0
	}
}

// toLValue converts the scalar globals exposed to filters.
func toLValue(v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(float64(x))
	case int64:
		return lua.LNumber(float64(x))
	case float64:
		return lua.LNumber(x)
	default:
		return lua.LString(fmt.Sprint(x))
	}
}
