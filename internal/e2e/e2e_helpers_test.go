package e2e

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/flarebyte/sealcheck/cmd/sealcheck/root"
	"github.com/flarebyte/sealcheck/internal/testutil"
)

type runResult struct {
	code   int
	stdout []byte
	stderr []byte
}

type manifestFile struct {
	Path          string `json:"path"`
	Ext           string `json:"ext"`
	HeaderPresent bool   `json:"header_present"`
	SHA256        string `json:"sha256"`
}

type manifestDoc struct {
	GKCI           string         `json:"gkci"`
	Oath           string         `json:"oath"`
	Project        string         `json:"project"`
	GeneratedAtUTC string         `json:"generated_at_utc"`
	Files          []manifestFile `json:"files"`
}

type summary struct {
	Checked  int    `json:"checked"`
	Changed  int    `json:"changed"`
	Missing  int    `json:"missing"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
	Manifest string `json:"manifest"`
}

// runSealcheck executes the CLI in-process and maps errors to exit codes
// the way main does.
func runSealcheck(t *testing.T, args ...string) runResult {
	t.Helper()
	cmd := root.NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	code := 0
	if err := cmd.Execute(); err != nil {
		code = 1
		var ec interface{ ExitCode() int }
		if errors.As(err, &ec) && ec.ExitCode() != 0 {
			code = ec.ExitCode()
		}
		stderr.WriteString(err.Error() + "\n")
	}
	return runResult{code: code, stdout: stdout.Bytes(), stderr: stderr.Bytes()}
}

// fixture copies testdata/<name> into a fresh temp dir.
func fixture(t *testing.T, name string) string {
	t.Helper()
	dst := filepath.Join(t.TempDir(), name)
	if err := testutil.CopyTree(filepath.Join("testdata", name), dst); err != nil {
		t.Fatalf("copy fixture: %v", err)
	}
	return dst
}

func readSummary(t *testing.T, b []byte) summary {
	t.Helper()
	var s summary
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("summary: %v\n%s", err, b)
	}
	return s
}

func readManifest(t *testing.T, p string) manifestDoc {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m manifestDoc
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("manifest: %v\n%s", err, b)
	}
	return m
}

func mustRead(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return string(b)
}
