package stage

import (
	"context"
	"errors"
	"fmt"

	"github.com/flarebyte/sealcheck/internal/seal"
)

const processFilesStage = "process-files"

type processRes struct {
	idx   int
	rec   Record
	envE  *Error
	fatal error
}

// process-files: run the seal processor on every record using the worker
// pool. Results are slotted back by index so record order never depends on
// the worker count.
func processFilesRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	if in.Meta == nil || in.Meta.RootAbs == "" {
		return Envelope{}, errors.New("process-files: discovery has not run")
	}
	p := newProcessor(in.Meta, deps)
	log := deps.log(ctx)

	out := in
	out.Records = make([]Record, len(in.Records))
	results := runIndexedParallel(len(in.Records), getWorkers(in.Meta), func(idx int) processRes {
		rec, envE, fatal := processRecord(ctx, p, in.Meta.RootAbs, in.Records[idx])
		return processRes{idx: idx, rec: rec, envE: envE, fatal: fatal}
	})

	var errs stageErrors
	for _, rr := range results {
		errs.add(rr.envE, rr.fatal)
		out.Records[rr.idx] = rr.rec
	}
	if errs.fatal != nil {
		return Envelope{}, errs.fatal
	}
	for _, r := range out.Records {
		switch {
		case r.Error != nil:
			log.Warn().Str("path", r.Locator).Str("reason", r.Error.Message).Msg("file skipped")
		case r.Changed:
			log.Debug().Str("path", r.Locator).Msg("header added")
		case r.File != nil && !r.File.HeaderPresent && !r.Audit:
			log.Debug().Str("path", r.Locator).Str("reason", r.Reason).Msg("header missing")
		}
	}
	errs.flush(&out)
	return out, nil
}

func newProcessor(meta *Meta, deps Deps) *seal.Processor {
	s := meta.Settings
	return &seal.Processor{
		Marker: s.SealMarker(),
		Metadata: seal.Metadata{
			Project: s.Project,
			Version: s.Version,
			Date:    meta.Date,
		},
		Mutate:    !s.CheckOnly,
		WriteFile: deps.WriteFile,
	}
}

// processRecord reads and processes one file. Decode, parse and read
// failures skip the file; write failures keep the pre-write record.
func processRecord(ctx context.Context, p *seal.Processor, rootAbs string, rec Record) (Record, *Error, error) {
	if err := ctx.Err(); err != nil {
		return rec, nil, fmt.Errorf("process-files: %w", err)
	}
	abs := recordPath(rootAbs, rec)
	data, err := readCandidate(abs, rec)
	if err != nil {
		rr, e := recordFailure(rec, processFilesStage, err)
		return rr, e, nil
	}
	res, err := p.Process(seal.File{Abs: abs, Rel: rec.Locator, Data: data})
	var werr *seal.WriteError
	if err != nil && !errors.As(err, &werr) {
		rr, e := recordFailure(rec, processFilesStage, err)
		return rr, e, nil
	}
	out := rec
	fr := res.Record
	out.File = &fr
	out.Changed = res.Changed
	out.Reason = res.Reason
	if werr != nil {
		_, e := recordFailure(rec, processFilesStage, werr)
		return out, e, nil
	}
	return out, nil, nil
}
