package stage

import (
	"context"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const luaFilterStage = "lua-filter"

type luaFilterRes struct {
	idx   int
	keep  bool
	envE  *Error
	fatal error
}

// buildLuaPredicate returns the predicate from the run settings, wrapping
// expressions without an explicit return. ok is false when no filter is
// configured.
func buildLuaPredicate(in Envelope) (code string, ok bool) {
	if in.Meta == nil {
		return "", false
	}
	code = strings.TrimSpace(in.Meta.Settings.Filter.Inline)
	if code == "" {
		return "", false
	}
	if !containsReturn(code) {
		code = "return (" + code + ")"
	}
	return code, true
}

// evalLuaFilterRecord runs the predicate for one record. Script errors and
// sandbox violations drop the record and report an envelope error; only
// cancellation of the run is fatal.
func evalLuaFilterRecord(ctx context.Context, rec Record, code string, timeout time.Duration) (keep bool, envE *Error, fatal error) {
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}
	ret, violation, err := runLuaScriptWithSandbox(ctx, timeout, map[string]any{
		"path": rec.Locator,
		"ext":  rec.Ext,
		"size": rec.Size,
	}, code)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil, ctx.Err()
		}
		_, e := recordFailure(rec, luaFilterStage, err)
		return false, e, nil
	}
	if violation != "" {
		_, e := recordFailure(rec, luaFilterStage, fmt.Errorf("%s", violation))
		return false, e, nil
	}
	return lua.LVAsBool(ret), nil, nil
}

// containsReturn reports whether the code string contains the token "return".
func containsReturn(s string) bool {
	return strings.Contains(s, "return")
}
