// Package manifest assembles per-file seal records into the run manifest
// and writes it to a sink.
package manifest

import (
	"time"

	"github.com/flarebyte/sealcheck/internal/seal"
)

// TimeFormat is the layout of GeneratedAtUTC.
const TimeFormat = "2006-01-02T15:04:05.000000Z07:00"

// Manifest is the run document. Field order is the serialized order.
type Manifest struct {
	ID             string            `json:"gkci"`
	Oath           string            `json:"oath"`
	Project        string            `json:"project"`
	GeneratedAtUTC string            `json:"generated_at_utc"`
	Files          []seal.FileRecord `json:"files"`
}

// Build aggregates records in the order received. now is read once.
func Build(m seal.Marker, project string, records []seal.FileRecord, now time.Time) Manifest {
	files := make([]seal.FileRecord, len(records))
	copy(files, records)
	return Manifest{
		ID:             m.ID,
		Oath:           m.Oath,
		Project:        project,
		GeneratedAtUTC: now.UTC().Format(TimeFormat),
		Files:          files,
	}
}
