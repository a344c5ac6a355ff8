package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"WARN", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"off", "disabled"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in).String(); got != c.want {
			t.Fatalf("ParseLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNew_JSONCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Writer: &buf, RunID: "r-1"})
	l.Debug().Str("path", "a.py").Msg("stamped")

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("not json: %v: %s", err, buf.String())
	}
	if ev["run_id"] != "r-1" || ev["path"] != "a.py" || ev["message"] != "stamped" {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "json", Writer: &buf})
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info leaked at warn level: %s", buf.String())
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: "console", Writer: &buf})
	l.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("unexpected console output: %q", buf.String())
	}
}

func TestPutFrom(t *testing.T) {
	var buf bytes.Buffer
	ctx := Put(context.Background(), New(Options{Format: "json", Writer: &buf}))
	From(ctx).Info().Msg("via ctx")
	if !strings.Contains(buf.String(), "via ctx") {
		t.Fatalf("context logger not used: %q", buf.String())
	}
	From(context.Background()).Info().Msg("dropped")
}
