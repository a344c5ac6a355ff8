package config

import "cuelang.org/go/cue"

// FileDiscovery holds optional discovery.* fields.
type FileDiscovery struct {
	SkipDirs            []string
	SkipFiles           []string
	Exclude             []string
	IncludeUnmapped     bool
	MaxUnmappedBytes    int64
	HasSkipDirs         bool
	HasSkipFiles        bool
	HasExclude          bool
	HasIncludeUnmapped  bool
	HasMaxUnmappedBytes bool
}

// parseDiscoverySection extracts optional discovery.* fields.
func parseDiscoverySection(v cue.Value) (FileDiscovery, error) {
	var d FileDiscovery
	dv := v.LookupPath(cue.ParsePath("discovery"))
	if !dv.Exists() {
		return d, nil
	}
	var err error
	if d.SkipDirs, d.HasSkipDirs, err = lookupStrings(dv, "skipDirs"); err != nil {
		return d, err
	}
	if d.SkipFiles, d.HasSkipFiles, err = lookupStrings(dv, "skipFiles"); err != nil {
		return d, err
	}
	if d.Exclude, d.HasExclude, err = lookupStrings(dv, "exclude"); err != nil {
		return d, err
	}
	if d.IncludeUnmapped, d.HasIncludeUnmapped, err = lookupBool(dv, "includeUnmapped"); err != nil {
		return d, err
	}
	if d.MaxUnmappedBytes, d.HasMaxUnmappedBytes, err = lookupInt(dv, "maxUnmappedBytes"); err != nil {
		return d, err
	}
	return d, nil
}

func (d FileDiscovery) apply(s *Discovery) {
	if d.HasSkipDirs {
		s.SkipDirs = d.SkipDirs
	}
	if d.HasSkipFiles {
		s.SkipFiles = d.SkipFiles
	}
	if d.HasExclude {
		s.Exclude = append(s.Exclude, d.Exclude...)
	}
	if d.HasIncludeUnmapped {
		s.IncludeUnmapped = d.IncludeUnmapped
	}
	if d.HasMaxUnmappedBytes {
		s.MaxUnmappedBytes = d.MaxUnmappedBytes
	}
}
