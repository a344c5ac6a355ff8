package stage

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRun_UnknownStage(t *testing.T) {
	_, err := Run(t.Context(), "no-such-stage", Envelope{}, Deps{})
	var unk ErrUnknown
	if !errors.As(err, &unk) || err.Error() != "unknown stage: no-such-stage" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPipeline_StagesRegistered(t *testing.T) {
	for _, name := range Pipeline {
		if _, ok := registry[name]; !ok {
			t.Fatalf("stage %s not registered", name)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("a\n  b\tc "); got != "a b c" {
		t.Fatalf("got %q", got)
	}
	if got := oneLine(" \n"); got != "error" {
		t.Fatalf("got %q", got)
	}
}

func TestEnvelope_JSONFieldOrder(t *testing.T) {
	env := Envelope{
		Records: []Record{{Locator: "a.py", Ext: ".py", Size: 3}},
		Errors:  []Error{{Stage: processFilesStage, Locator: "b.py", Message: "boom"}},
	}
	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"records":[{"locator":"a.py","ext":".py","size":3}],"errors":[{"stage":"process-files","locator":"b.py","message":"boom"}]}`
	if string(b) != want {
		t.Fatalf("want %s\n got %s", want, b)
	}
}
