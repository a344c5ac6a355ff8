package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/flarebyte/sealcheck/internal/logger"
)

// lua-filter: drop candidates for which the configured predicate is falsy.
func luaFilterRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	code, ok := buildLuaPredicate(in)
	if !ok {
		return in, nil
	}
	if err := compileLua(code); err != nil {
		return Envelope{}, fmt.Errorf("lua-filter: %v", err)
	}
	timeout := time.Duration(in.Meta.Settings.Filter.TimeoutMs) * time.Millisecond
	log := deps.log(ctx)
	ctx = logger.Put(ctx, *log)

	n := len(in.Records)
	keeps := make([]bool, n)
	var errs stageErrors
	results := runIndexedParallel(n, getWorkers(in.Meta), func(idx int) luaFilterRes {
		keep, envE, fatal := evalLuaFilterRecord(ctx, in.Records[idx], code, timeout)
		return luaFilterRes{idx: idx, keep: keep, envE: envE, fatal: fatal}
	})
	for _, rr := range results {
		errs.add(rr.envE, rr.fatal)
		keeps[rr.idx] = rr.keep
	}
	if errs.fatal != nil {
		return Envelope{}, errs.fatal
	}

	out := in
	out.Records = make([]Record, 0, n)
	dropped := 0
	for i, r := range in.Records {
		if keeps[i] {
			out.Records = append(out.Records, r)
		} else {
			dropped++
		}
	}
	errs.flush(&out)
	log.Debug().Int("kept", len(out.Records)).Int("dropped", dropped).Msg("lua filter applied")
	return out, nil
}

func init() { Register(luaFilterStage, luaFilterRunner) }
