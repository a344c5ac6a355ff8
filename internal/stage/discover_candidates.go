package stage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/sealcheck/internal/dialect"
)

const discoverCandidatesStage = "discover-candidates"

// discover-candidates: walk the root in lexical order and emit one record
// per eligible regular file.
func discoverCandidatesRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	if in.Meta == nil {
		return Envelope{}, errors.New("discover-candidates: missing run settings")
	}
	s := in.Meta.Settings
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return Envelope{}, fmt.Errorf("discover-candidates: %v", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Envelope{}, fmt.Errorf("discover-candidates: %v", err)
	}
	if !info.IsDir() {
		return Envelope{}, fmt.Errorf("discover-candidates: root is not a directory: %s", s.Root)
	}
	rules := newDiscoveryRules(s.Discovery, s.Manifest)
	log := deps.log(ctx)

	var records []Record
	var errs stageErrors
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if p == absRoot {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		rel := displayDiscoveryPath(absRoot, p)
		if err != nil {
			errs.addf(discoverCandidatesStage, rel, err)
			return nil
		}
		if d.IsDir() {
			if rules.skipDir(d.Name()) || rules.excluded(rel, true) {
				log.Debug().Str("path", rel).Msg("directory skipped")
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			// symlinks, sockets and devices
			return nil
		}
		if rules.skipFile(d.Name()) || rules.excluded(rel, false) || rules.isManifest(p) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			errs.addf(discoverCandidatesStage, rel, err)
			return nil
		}
		ext := dialect.Ext(d.Name())
		_, mapped := dialect.Lookup(ext)
		if !mapped && !rules.audit(fi.Size()) {
			return nil
		}
		records = append(records, Record{Locator: rel, Ext: ext, Size: fi.Size(), Audit: !mapped})
		return nil
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("discover-candidates: %w", err)
	}

	out := in
	meta := *in.Meta
	meta.RootAbs = absRoot
	out.Meta = &meta
	if records == nil {
		records = []Record{}
	}
	out.Records = records
	errs.flush(&out)
	log.Debug().Int("candidates", len(records)).Str("root", absRoot).Msg("discovery finished")
	return out, nil
}

func displayDiscoveryPath(absRoot string, p string) string {
	rel, err := filepath.Rel(absRoot, p)
	if err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}

// manifestPath returns the absolute path of a local manifest destination,
// or "" for stdout and object storage.
func manifestPath(dest string) string {
	if dest == "" || dest == "-" || strings.HasPrefix(dest, "s3://") {
		return ""
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return ""
	}
	return abs
}

func init() { Register(discoverCandidatesStage, discoverCandidatesRunner) }
