package stamp

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/flarebyte/sealcheck/internal/stage"
)

const progressInterval = 500 * time.Millisecond

type progressReporter struct {
	enabled  bool
	interval time.Duration
	w        io.Writer

	mu        sync.Mutex
	stageName string
	records   int
	errors    int
}

func newProgressReporter(enabled bool, w io.Writer) *progressReporter {
	if !enabled || w == nil {
		return &progressReporter{}
	}
	return &progressReporter{enabled: true, interval: progressInterval, w: w}
}

func (p *progressReporter) runStage(ctx context.Context, name string, in stage.Envelope, deps stage.Deps) (stage.Envelope, error) {
	if p == nil || !p.enabled {
		return stage.Run(ctx, name, in, deps)
	}

	p.setSnapshot(name, len(in.Records), len(in.Errors))
	p.emit()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				p.emit()
			case <-done:
				return
			}
		}
	}()

	out, err := stage.Run(ctx, name, in, deps)
	close(done)
	if err == nil {
		p.setSnapshot(name, len(out.Records), len(out.Errors))
		p.emit()
	}
	return out, err
}

func (p *progressReporter) setSnapshot(stageName string, records int, errs int) {
	p.mu.Lock()
	p.stageName = stageName
	p.records = records
	p.errors = errs
	p.mu.Unlock()
}

func (p *progressReporter) emit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, "progress stage=%s records=%d errors=%d\n", p.stageName, p.records, p.errors)
}
