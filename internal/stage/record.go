package stage

import "github.com/flarebyte/sealcheck/internal/seal"

// Record is one candidate file flowing through the pipeline.
type Record struct {
	Locator string `json:"locator"`
	Ext     string `json:"ext"`
	Size    int64  `json:"size"`
	// Audit marks files without a dialect, recorded but never written.
	Audit bool `json:"audit,omitempty"`

	// Set by process-files.
	File    *seal.FileRecord `json:"file,omitempty"`
	Changed bool             `json:"changed,omitempty"`
	Reason  string           `json:"reason,omitempty"`
	Error   *RecError        `json:"error,omitempty"`
}
