package config

import "cuelang.org/go/cue"

// FileFilter holds optional filter.* fields.
type FileFilter struct {
	Inline       string
	TimeoutMs    int
	HasInline    bool
	HasTimeoutMs bool
}

func parseFilterSection(v cue.Value) (FileFilter, error) {
	var f FileFilter
	fv := v.LookupPath(cue.ParsePath("filter"))
	if !fv.Exists() {
		return f, nil
	}
	var err error
	if f.Inline, f.HasInline, err = lookupString(fv, "inline"); err != nil {
		return f, err
	}
	n, ok, err := lookupInt(fv, "timeoutMs")
	if err != nil {
		return f, err
	}
	f.TimeoutMs, f.HasTimeoutMs = int(n), ok
	return f, nil
}

func (f FileFilter) apply(s *Filter) {
	if f.HasInline {
		s.Inline = f.Inline
	}
	if f.HasTimeoutMs {
		s.TimeoutMs = f.TimeoutMs
	}
}

// FileMarker holds optional marker.* fields.
type FileMarker struct {
	ID, Oath, Title, Author             string
	HasID, HasOath, HasTitle, HasAuthor bool
}

func parseMarkerSection(v cue.Value) (FileMarker, error) {
	var m FileMarker
	mv := v.LookupPath(cue.ParsePath("marker"))
	if !mv.Exists() {
		return m, nil
	}
	var err error
	if m.ID, m.HasID, err = lookupString(mv, "id"); err != nil {
		return m, err
	}
	if m.Oath, m.HasOath, err = lookupString(mv, "oath"); err != nil {
		return m, err
	}
	if m.Title, m.HasTitle, err = lookupString(mv, "title"); err != nil {
		return m, err
	}
	if m.Author, m.HasAuthor, err = lookupString(mv, "author"); err != nil {
		return m, err
	}
	return m, nil
}

func (m FileMarker) apply(s *Marker) {
	if m.HasID {
		s.ID = m.ID
	}
	if m.HasOath {
		s.Oath = m.Oath
	}
	if m.HasTitle {
		s.Title = m.Title
	}
	if m.HasAuthor {
		s.Author = m.Author
	}
}

// FileS3 holds optional s3.* fields. Credentials only come from the
// environment.
type FileS3 struct {
	Endpoint    string
	Region      string
	UseSSL      bool
	HasEndpoint bool
	HasRegion   bool
	HasUseSSL   bool
}

func parseS3Section(v cue.Value) (FileS3, error) {
	var s FileS3
	sv := v.LookupPath(cue.ParsePath("s3"))
	if !sv.Exists() {
		return s, nil
	}
	var err error
	if s.Endpoint, s.HasEndpoint, err = lookupString(sv, "endpoint"); err != nil {
		return s, err
	}
	if s.Region, s.HasRegion, err = lookupString(sv, "region"); err != nil {
		return s, err
	}
	if s.UseSSL, s.HasUseSSL, err = lookupBool(sv, "useSSL"); err != nil {
		return s, err
	}
	return s, nil
}

func (f FileS3) apply(s *S3) {
	if f.HasEndpoint {
		s.Endpoint = f.Endpoint
	}
	if f.HasRegion {
		s.Region = f.Region
	}
	if f.HasUseSSL {
		s.UseSSL = f.UseSSL
	}
}

// FileLog holds optional log.* fields.
type FileLog struct {
	Level     string
	Format    string
	HasLevel  bool
	HasFormat bool
}

func parseLogSection(v cue.Value) (FileLog, error) {
	var l FileLog
	lv := v.LookupPath(cue.ParsePath("log"))
	if !lv.Exists() {
		return l, nil
	}
	var err error
	if l.Level, l.HasLevel, err = lookupString(lv, "level"); err != nil {
		return l, err
	}
	if l.Format, l.HasFormat, err = lookupString(lv, "format"); err != nil {
		return l, err
	}
	return l, nil
}

func (f FileLog) apply(s *Log) {
	if f.HasLevel {
		s.Level = f.Level
	}
	if f.HasFormat {
		s.Format = f.Format
	}
}
