package stage

import (
	"fmt"
	"os"
	"path/filepath"
)

func recordPath(rootAbs string, rec Record) string {
	return filepath.Join(rootAbs, filepath.FromSlash(rec.Locator))
}

// readCandidate reads a candidate, refusing audit files that grew past the
// size seen at discovery.
func readCandidate(abs string, rec Record) ([]byte, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	if rec.Audit && int64(len(data)) > rec.Size {
		return nil, fmt.Errorf("%s: changed size during run", rec.Locator)
	}
	return data, nil
}

func init() { Register(processFilesStage, processFilesRunner) }
