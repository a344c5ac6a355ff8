package stage

import (
	"github.com/flarebyte/sealcheck/internal/config"
	"github.com/flarebyte/sealcheck/internal/manifest"
)

// Error is an envelope-level error. Locator is the root-relative path of
// the file concerned, when there is one.
type Error struct {
	Stage   string `json:"stage"`
	Locator string `json:"locator,omitempty"`
	Message string `json:"message"`
}

// Summary holds the run tallies printed by the stamp command.
type Summary struct {
	Checked  int    `json:"checked"`
	Changed  int    `json:"changed"`
	Missing  int    `json:"missing"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
	Manifest string `json:"manifest"`
}

// Meta holds run-wide inputs and the outputs of the aggregate stages.
type Meta struct {
	RunID    string          `json:"runId,omitempty"`
	Settings config.Settings `json:"settings"`
	// RootAbs is filled by discover-candidates.
	RootAbs string `json:"rootAbs,omitempty"`
	// Date is the header date, captured once per run.
	Date     string             `json:"date,omitempty"`
	Summary  *Summary           `json:"summary,omitempty"`
	Manifest *manifest.Manifest `json:"manifest,omitempty"`
}

// Envelope is the contract passed between stages.
// Field order is stable to keep JSON deterministic in tests.
type Envelope struct {
	Records []Record `json:"records"`
	Meta    *Meta    `json:"meta,omitempty"`
	Errors  []Error  `json:"errors,omitempty"`
}
