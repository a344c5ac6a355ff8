package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/flarebyte/sealcheck/internal/buildinfo"
)

func withBuildInfo(t *testing.T, v, c, d string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() {
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = oldVersion, oldCommit, oldDate
	})
	buildinfo.Version, buildinfo.Commit, buildinfo.Date = v, c, d
}

func runVersion(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestVersionDefaultOutputStable(t *testing.T) {
	withBuildInfo(t, "", "", "")
	if got := runVersion(t); got != "sealcheck dev\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestVersionShortWithCommit(t *testing.T) {
	withBuildInfo(t, "1.2.3", "abcdef123456", "2026-01-02")
	if got := runVersion(t, "--short"); got != "1.2.3 (commit=abcdef1, date=2026-01-02)\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestVersionJSON(t *testing.T) {
	withBuildInfo(t, "1.2.3", "", "")
	var got map[string]any
	if err := json.Unmarshal([]byte(runVersion(t, "--json")), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got["version"] != "1.2.3" || got["go"] == "" {
		t.Fatalf("unexpected payload: %v", got)
	}
}
