// Package config resolves run settings from defaults, the environment, an
// optional CUE file and command-line flags, in that order of precedence.
package config

import (
	"fmt"

	"cuelang.org/go/cue"
)

// File holds the values present in a CUE config file. Has* flags record
// presence so that only set fields override lower layers.
type File struct {
	ConfigVersion string

	Root         string
	Project      string
	Version      string
	CheckOnly    bool
	Manifest     string
	Workers      int
	HasRoot      bool
	HasProject   bool
	HasVersion   bool
	HasCheckOnly bool
	HasManifest  bool
	HasWorkers   bool

	Discovery FileDiscovery
	Filter    FileFilter
	Marker    FileMarker
	S3        FileS3
	Log       FileLog
}

// ParseFile compiles the CUE config at path and extracts its settings.
func ParseFile(path string) (File, error) {
	v, err := compileCUE(path)
	if err != nil {
		return File{}, err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return File{}, err
	}
	var f File
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&f.ConfigVersion); err != nil {
		return File{}, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if err := checkConfigVersion(f.ConfigVersion); err != nil {
		return File{}, err
	}
	if err := parseTopLevel(v, &f); err != nil {
		return File{}, err
	}
	if f.Discovery, err = parseDiscoverySection(v); err != nil {
		return File{}, err
	}
	if f.Filter, err = parseFilterSection(v); err != nil {
		return File{}, err
	}
	if f.Marker, err = parseMarkerSection(v); err != nil {
		return File{}, err
	}
	if f.S3, err = parseS3Section(v); err != nil {
		return File{}, err
	}
	if f.Log, err = parseLogSection(v); err != nil {
		return File{}, err
	}
	return f, nil
}

func parseTopLevel(v cue.Value, f *File) error {
	var err error
	if f.Root, f.HasRoot, err = lookupString(v, "root"); err != nil {
		return err
	}
	if f.Project, f.HasProject, err = lookupString(v, "project"); err != nil {
		return err
	}
	if f.Version, f.HasVersion, err = lookupString(v, "version"); err != nil {
		return err
	}
	if f.Manifest, f.HasManifest, err = lookupString(v, "manifest"); err != nil {
		return err
	}
	if f.CheckOnly, f.HasCheckOnly, err = lookupBool(v, "checkOnly"); err != nil {
		return err
	}
	n, ok, err := lookupInt(v, "workers")
	if err != nil {
		return err
	}
	f.Workers, f.HasWorkers = int(n), ok
	return nil
}

// Apply overlays the fields present in f onto s.
func (f File) Apply(s *Settings) {
	if f.HasRoot {
		s.Root = f.Root
	}
	if f.HasProject {
		s.Project = f.Project
	}
	if f.HasVersion {
		s.Version = f.Version
	}
	if f.HasCheckOnly {
		s.CheckOnly = f.CheckOnly
	}
	if f.HasManifest {
		s.Manifest = f.Manifest
	}
	if f.HasWorkers {
		s.Workers = f.Workers
	}
	f.Discovery.apply(&s.Discovery)
	f.Filter.apply(&s.Filter)
	f.Marker.apply(&s.Marker)
	f.S3.apply(&s.S3)
	f.Log.apply(&s.Log)
}
