package seal

import (
	"os"
	"path/filepath"
	"testing"
)

var testMarker = Marker{ID: "TEST-SEAL-01", Oath: "Leave it better.", Title: "Test Seal", Author: "QA"}

var testMeta = Metadata{Project: "Proj", Version: "v9", Date: "2025-01-02"}

func writeFile(t *testing.T, dir, name, content string) File {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return File{Abs: p, Rel: name, Data: []byte(content)}
}

func readFile(t *testing.T, p string) []byte {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return b
}

func mustHash(t *testing.T, p string) string {
	t.Helper()
	return Hash(readFile(t, p))
}
