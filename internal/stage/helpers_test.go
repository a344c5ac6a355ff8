package stage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flarebyte/sealcheck/internal/config"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func testSettings(root string) config.Settings {
	s := config.Defaults()
	s.Root = root
	s.Project = "Proj"
	s.Version = "v9"
	s.Manifest = "-"
	s.Workers = 2
	return s
}

func testEnvelope(s config.Settings) Envelope {
	return Envelope{Records: []Record{}, Meta: &Meta{Settings: s, Date: "2025-03-04"}}
}

func testDeps(stdout *bytes.Buffer) Deps {
	d := Deps{Now: func() time.Time { return fixedNow }}
	if stdout != nil {
		d.Stdout = stdout
	}
	return d
}

func runStagesT(t *testing.T, in Envelope, deps Deps, names ...string) Envelope {
	t.Helper()
	out := in
	var err error
	for _, n := range names {
		out, err = Run(context.Background(), n, out, deps)
		if err != nil {
			t.Fatalf("%s: %v", n, err)
		}
	}
	return out
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func mustRead(t *testing.T, p string) []byte {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return b
}

func locators(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Locator)
	}
	return out
}
