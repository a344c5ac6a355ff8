package stage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/flarebyte/sealcheck/internal/seal"
)

func sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

const sealedPy = "# Guru Codex Seal v1.0 ⟡GK⟡ | GKCI-2025-7F3A2E | Oath: Through every line, leave the world lighter than before.\nprint(2)\n"

func TestProcessFiles_MutateScenario(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py": "print(1)\n",
		"b.py": sealedPy,
	})
	out := runStagesT(t, testEnvelope(testSettings(root)), testDeps(nil),
		discoverCandidatesStage, processFilesStage, buildManifestStage)

	a := mustRead(t, filepath.Join(root, "a.py"))
	lines := strings.Split(string(a), "\n")
	if !strings.HasPrefix(lines[0], "# Guru Codex Seal") || !strings.HasPrefix(lines[1], "# Project: Proj | File: a.py") {
		t.Fatalf("a.py header not added:\n%s", a)
	}
	if lines[2] != "print(1)" {
		t.Fatalf("a.py body changed:\n%s", a)
	}
	if got := string(mustRead(t, filepath.Join(root, "b.py"))); got != sealedPy {
		t.Fatalf("b.py rewritten:\n%s", got)
	}

	sm := out.Meta.Summary
	if sm.Checked != 2 || sm.Changed != 1 || sm.Missing != 0 || sm.Skipped != 0 || sm.Errors != 0 {
		t.Fatalf("unexpected summary: %+v", *sm)
	}
	files := out.Meta.Manifest.Files
	if len(files) != 2 || files[0].Path != "a.py" || files[1].Path != "b.py" {
		t.Fatalf("unexpected manifest files: %+v", files)
	}
	if files[0].SHA256 != sum(a) || files[1].SHA256 != sum([]byte(sealedPy)) {
		t.Fatalf("hashes do not match disk")
	}
	if !files[0].HeaderPresent || !files[1].HeaderPresent {
		t.Fatalf("header_present should be true: %+v", files)
	}
}

func TestProcessFiles_CheckOnlyScenario(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py": "print(1)\n",
		"b.py": sealedPy,
	})
	s := testSettings(root)
	s.CheckOnly = true
	out := runStagesT(t, testEnvelope(s), testDeps(nil),
		discoverCandidatesStage, processFilesStage, buildManifestStage)

	if got := string(mustRead(t, filepath.Join(root, "a.py"))); got != "print(1)\n" {
		t.Fatalf("a.py mutated in check-only mode: %q", got)
	}
	sm := out.Meta.Summary
	if sm.Checked != 2 || sm.Changed != 0 || sm.Missing != 1 {
		t.Fatalf("unexpected summary: %+v", *sm)
	}
	if out.Records[0].Reason != "check-only" {
		t.Fatalf("reason: %q", out.Records[0].Reason)
	}
}

func TestProcessFiles_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":         "print(1)\n",
		"web/app.ts":   "export {}\n",
		"style.css":    "a{}\n",
		"README.md":    "# Title\n",
		"cfg/x.json":   "{\"b\":1,\"a\":2}\n",
		"cfg/arr.json": "[1,2]\n",
	})
	s := testSettings(root)
	first := runStagesT(t, testEnvelope(s), testDeps(nil), discoverCandidatesStage, processFilesStage, buildManifestStage)
	second := runStagesT(t, testEnvelope(s), testDeps(nil), discoverCandidatesStage, processFilesStage, buildManifestStage)

	if first.Meta.Summary.Changed != 5 {
		t.Fatalf("first run changed %d files", first.Meta.Summary.Changed)
	}
	if second.Meta.Summary.Changed != 0 {
		t.Fatalf("second run changed %d files", second.Meta.Summary.Changed)
	}
	if !reflect.DeepEqual(first.Meta.Manifest.Files, second.Meta.Manifest.Files) {
		t.Fatalf("manifests differ between runs")
	}
	// non-object JSON is left alone and stays missing
	if second.Meta.Summary.Missing != 1 {
		t.Fatalf("missing: %d", second.Meta.Summary.Missing)
	}
}

func TestProcessFiles_OrderIndependentOfWorkers(t *testing.T) {
	files := map[string]string{}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files[n+"/one.py"] = "x = 1\n"
		files[n+"/two.go"] = "package " + n + "\n"
	}
	var manifests [][]string
	for _, w := range []int{1, 3, 16} {
		root := t.TempDir()
		writeTree(t, root, files)
		s := testSettings(root)
		s.CheckOnly = true
		s.Workers = w
		out := runStagesT(t, testEnvelope(s), testDeps(nil), discoverCandidatesStage, processFilesStage, buildManifestStage)
		var paths []string
		for _, f := range out.Meta.Manifest.Files {
			paths = append(paths, f.Path)
		}
		manifests = append(manifests, paths)
	}
	for i := 1; i < len(manifests); i++ {
		if !reflect.DeepEqual(manifests[0], manifests[i]) {
			t.Fatalf("order differs with worker count:\n%v\n%v", manifests[0], manifests[i])
		}
	}
}

func TestProcessFiles_DecodeAndParseErrorsSkip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"bad.py":   "\xff\xfe\x00",
		"bad.json": "{not json",
		"ok.py":    "pass\n",
	})
	out := runStagesT(t, testEnvelope(testSettings(root)), testDeps(nil), discoverCandidatesStage, processFilesStage, buildManifestStage)

	sm := out.Meta.Summary
	if sm.Checked != 1 || sm.Skipped != 2 || sm.Errors != 2 {
		t.Fatalf("unexpected summary: %+v", *sm)
	}
	if len(out.Meta.Manifest.Files) != 1 || out.Meta.Manifest.Files[0].Path != "ok.py" {
		t.Fatalf("skipped files must not be in the manifest: %+v", out.Meta.Manifest.Files)
	}
	if got := string(mustRead(t, filepath.Join(root, "bad.json"))); got != "{not json" {
		t.Fatalf("unparseable json rewritten: %q", got)
	}
	for _, e := range out.Errors {
		if e.Stage != processFilesStage || strings.Contains(e.Message, "\n") {
			t.Fatalf("unexpected error: %+v", e)
		}
	}
}

func TestProcessFiles_WriteErrorKeepsPreWriteState(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "print(1)\n", "b.py": "print(2)\n"})
	deps := testDeps(nil)
	deps.WriteFile = func(path string, data []byte) error {
		if filepath.Base(path) == "a.py" {
			return errors.New("read-only file system")
		}
		return os.WriteFile(path, data, 0o644)
	}
	out := runStagesT(t, testEnvelope(testSettings(root)), deps, discoverCandidatesStage, processFilesStage, buildManifestStage)

	files := out.Meta.Manifest.Files
	if len(files) != 2 {
		t.Fatalf("write failures stay in the manifest: %+v", files)
	}
	if files[0].HeaderPresent || files[0].SHA256 != sum([]byte("print(1)\n")) {
		t.Fatalf("a.py record should reflect pre-write state: %+v", files[0])
	}
	sm := out.Meta.Summary
	if sm.Checked != 2 || sm.Missing != 1 || sm.Errors != 1 || sm.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", *sm)
	}
	if !strings.Contains(out.Errors[0].Message, "read-only file system") {
		t.Fatalf("error message: %q", out.Errors[0].Message)
	}
}

func TestProcessFiles_AuditRecordsNotCounted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"notes.txt": "plain\n", "a.py": "pass\n"})
	s := testSettings(root)
	s.Discovery.IncludeUnmapped = true
	out := runStagesT(t, testEnvelope(s), testDeps(nil), discoverCandidatesStage, processFilesStage, buildManifestStage)

	if got := string(mustRead(t, filepath.Join(root, "notes.txt"))); got != "plain\n" {
		t.Fatalf("audit file written: %q", got)
	}
	sm := out.Meta.Summary
	if sm.Checked != 1 || sm.Changed != 1 || sm.Missing != 0 {
		t.Fatalf("audit file counted: %+v", *sm)
	}
	files := out.Meta.Manifest.Files
	if len(files) != 2 || files[1].Path != "notes.txt" || files[1].Ext != ".txt" || files[1].HeaderPresent {
		t.Fatalf("audit record: %+v", files)
	}
}

func TestWriteManifest_Stdout(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "pass\n"})
	var buf bytes.Buffer
	s := testSettings(root)
	s.CheckOnly = true
	runStagesT(t, testEnvelope(s), testDeps(&buf), Pipeline...)

	got := buf.String()
	if !strings.Contains(got, `"gkci": "GKCI-2025-7F3A2E"`) || !strings.Contains(got, `"generated_at_utc": "2025-03-04T05:06:07.000000Z"`) {
		t.Fatalf("unexpected manifest:\n%s", got)
	}
	if !strings.Contains(got, `"path": "a.py"`) {
		t.Fatalf("record missing:\n%s", got)
	}
}

func TestWriteManifest_FileYAML(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "pass\n"})
	dest := filepath.Join(t.TempDir(), "nested", "manifest.yaml")
	s := testSettings(root)
	s.Manifest = dest
	out := runStagesT(t, testEnvelope(s), testDeps(nil), Pipeline...)

	got := string(mustRead(t, dest))
	if !strings.HasPrefix(got, "gkci: GKCI-2025-7F3A2E\n") || !strings.Contains(got, "header_present: true") {
		t.Fatalf("unexpected yaml manifest:\n%s", got)
	}
	if out.Meta.Summary.Manifest != dest {
		t.Fatalf("summary manifest: %q", out.Meta.Summary.Manifest)
	}
}

func TestTally(t *testing.T) {
	present := seal.FileRecord{Path: "a", Ext: ".py", HeaderPresent: true}
	absent := seal.FileRecord{Path: "b", Ext: ".py"}
	recs := []Record{
		{Locator: "a", File: &present, Changed: true},
		{Locator: "b", File: &absent},
		{Locator: "c", Error: &RecError{Stage: processFilesStage, Message: "x"}},
		{Locator: "d", Audit: true, File: &absent},
	}
	got := Tally(recs, []Error{{Stage: processFilesStage, Locator: "c", Message: "x"}})
	want := Summary{Checked: 2, Changed: 1, Missing: 1, Skipped: 1, Errors: 1}
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}
