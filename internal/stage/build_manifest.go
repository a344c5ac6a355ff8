package stage

import (
	"context"
	"errors"

	"github.com/flarebyte/sealcheck/internal/manifest"
	"github.com/flarebyte/sealcheck/internal/seal"
)

const buildManifestStage = "build-manifest"

// Tally computes the run summary from processed records. Audit records are
// listed in the manifest but never counted.
func Tally(records []Record, envErrs []Error) Summary {
	var s Summary
	for _, r := range records {
		if r.File == nil {
			if r.Error != nil {
				s.Skipped++
			}
			continue
		}
		if r.Audit {
			continue
		}
		s.Checked++
		if r.Changed {
			s.Changed++
		}
		if !r.File.HeaderPresent {
			s.Missing++
		}
	}
	s.Errors = len(envErrs)
	return s
}

// manifestRecords returns the file records of every processed record in
// pipeline order.
func manifestRecords(records []Record) []seal.FileRecord {
	out := make([]seal.FileRecord, 0, len(records))
	for _, r := range records {
		if r.File != nil {
			out = append(out, *r.File)
		}
	}
	return out
}

func buildManifestRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	if in.Meta == nil {
		return Envelope{}, errors.New("build-manifest: missing run settings")
	}
	s := in.Meta.Settings
	sum := Tally(in.Records, in.Errors)
	sum.Manifest = s.Manifest
	m := manifest.Build(s.SealMarker(), s.Project, manifestRecords(in.Records), deps.now())

	out := in
	meta := *in.Meta
	meta.Summary = &sum
	meta.Manifest = &m
	out.Meta = &meta
	return out, nil
}

func init() { Register(buildManifestStage, buildManifestRunner) }
