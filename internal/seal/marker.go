// Package seal detects, synthesizes and injects the provenance header
// ("seal") into text files, and reports the final state of each file.
package seal

import "fmt"

// Marker identifies the seal. Its fields are fixed for a run and never
// derived from file content.
type Marker struct {
	ID     string
	Oath   string
	Title  string
	Author string
}

// DefaultMarker is the seal stamped when no other marker is configured.
var DefaultMarker = Marker{
	ID:     "GKCI-2025-7F3A2E",
	Oath:   "Through every line, leave the world lighter than before.",
	Title:  "Guru Codex Seal v1.0 ⟡GK⟡",
	Author: "Kyle × Guru",
}

// Metadata holds the per-run values rendered into a header. Path is the
// root-relative posix path of the file being stamped.
type Metadata struct {
	Project string
	Version string
	Date    string
	Path    string
}

// ForPath returns a copy of md bound to path.
func (md Metadata) ForPath(path string) Metadata {
	md.Path = path
	return md
}

// Banner is the first header line: title, identifier and oath.
func (m Marker) Banner() string {
	return fmt.Sprintf("%s | %s | Oath: %s", m.Title, m.ID, m.Oath)
}

// Attribution is the second header line.
func (m Marker) Attribution(md Metadata) string {
	return fmt.Sprintf("Project: %s | File: %s | Author: %s | Version: %s | Date: %s",
		md.Project, md.Path, m.Author, md.Version, md.Date)
}

// Comment is the single-line form stored in structured documents.
func (m Marker) Comment(md Metadata) string {
	return m.Banner() + " | " + m.Attribution(md)
}
