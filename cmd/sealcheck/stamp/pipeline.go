package stamp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/flarebyte/sealcheck/internal/stage"
)

// runStages executes the provided list of stage names in order.
func runStages(ctx context.Context, p *progressReporter, in stage.Envelope, stages []string, deps stage.Deps) (stage.Envelope, error) {
	out := in
	var err error
	for _, name := range stages {
		out, err = p.runStage(ctx, name, out, deps)
		if err != nil {
			return stage.Envelope{}, err
		}
	}
	return out, nil
}

// writeSummary prints the run summary as indented JSON.
func writeSummary(w io.Writer, s stage.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
