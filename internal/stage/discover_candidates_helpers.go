package stage

import (
	"path/filepath"
	"strings"

	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/flarebyte/sealcheck/internal/config"
)

type discoveryRules struct {
	skipDirs        map[string]struct{}
	skipFiles       map[string]struct{}
	exclude         gitgitignore.Matcher
	manifestAbs     string
	includeUnmapped bool
	maxUnmapped     int64
}

func newDiscoveryRules(d config.Discovery, manifestDest string) discoveryRules {
	r := discoveryRules{
		skipDirs:        toSet(d.SkipDirs),
		skipFiles:       toSet(d.SkipFiles),
		manifestAbs:     manifestPath(manifestDest),
		includeUnmapped: d.IncludeUnmapped,
		maxUnmapped:     d.MaxUnmappedBytes,
	}
	if len(d.Exclude) > 0 {
		patterns := make([]gitgitignore.Pattern, 0, len(d.Exclude))
		for _, raw := range d.Exclude {
			line := strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitgitignore.ParsePattern(line, nil))
		}
		r.exclude = gitgitignore.NewMatcher(patterns)
	}
	return r
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (r discoveryRules) skipDir(name string) bool {
	_, ok := r.skipDirs[name]
	return ok
}

func (r discoveryRules) skipFile(name string) bool {
	_, ok := r.skipFiles[name]
	return ok
}

// excluded matches a root-relative posix path against the exclude patterns.
func (r discoveryRules) excluded(rel string, isDir bool) bool {
	if r.exclude == nil || rel == "" || rel == "." {
		return false
	}
	return r.exclude.Match(strings.Split(rel, "/"), isDir)
}

func (r discoveryRules) isManifest(p string) bool {
	return r.manifestAbs != "" && filepath.Clean(p) == r.manifestAbs
}

// audit reports whether an unmapped file of the given size is recorded.
func (r discoveryRules) audit(size int64) bool {
	return r.includeUnmapped && size <= r.maxUnmapped
}
