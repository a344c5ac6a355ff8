package stage

import (
	"context"
	"io"
	"time"

	"github.com/flarebyte/sealcheck/internal/logger"
)

// Deps carries what stages need from the outside world. Zero values are
// replaced with process defaults.
type Deps struct {
	Log    *logger.Logger
	Now    func() time.Time
	Stdout io.Writer
	// WriteFile replaces the atomic file write of process-files.
	WriteFile func(path string, data []byte) error
}

// log returns d.Log, or the logger carried by ctx.
func (d Deps) log(ctx context.Context) *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.From(ctx)
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Runner executes a stage.
type Runner func(ctx context.Context, in Envelope, deps Deps) (Envelope, error)

var registry = map[string]Runner{}

// Register adds a stage runner.
func Register(name string, r Runner) {
	registry[name] = r
}

// Run executes a registered stage by name.
func Run(ctx context.Context, name string, in Envelope, deps Deps) (Envelope, error) {
	r, ok := registry[name]
	if !ok {
		return Envelope{}, ErrUnknown{name: name}
	}
	return r(ctx, in, deps)
}

// ErrUnknown is returned when a stage is not found.
type ErrUnknown struct{ name string }

func (e ErrUnknown) Error() string { return "unknown stage: " + e.name }

// Pipeline is the fixed stage order of a stamp run.
var Pipeline = []string{
	discoverCandidatesStage,
	luaFilterStage,
	processFilesStage,
	buildManifestStage,
	writeManifestStage,
}
