package seal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/flarebyte/sealcheck/internal/dialect"
)

// Presence is the outcome of marker detection.
type Presence int

const (
	Absent Presence = iota
	Present
	// Undetermined means the content could not be parsed for its dialect.
	Undetermined
)

func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case Undetermined:
		return "undetermined"
	default:
		return "absent"
	}
}

// CommentField is the metadata field carrying the seal in structured documents.
const CommentField = "_comment"

// headLines bounds detection to the region the header is inserted into.
const headLines = 5

const utf8BOM = "\ufeff"

// ScanHead reports whether the marker identifier occurs in the first five
// lines of text.
func ScanHead(text string, m Marker) bool {
	lines := strings.SplitN(text, "\n", headLines+1)
	if len(lines) > headLines {
		lines = lines[:headLines]
	}
	for _, l := range lines {
		if strings.Contains(l, m.ID) {
			return true
		}
	}
	return false
}

// Detect reports whether text already carries the marker under dialect d.
// For structured dialects a parse failure yields Undetermined and an error
// wrapping ErrStructuredParse.
func Detect(text string, d dialect.Dialect, m Marker) (Presence, error) {
	if d.Kind != dialect.Structured {
		if ScanHead(text, m) {
			return Present, nil
		}
		return Absent, nil
	}
	v, err := decodeJSON(text)
	if err != nil {
		return Undetermined, fmt.Errorf("%w: %v", ErrStructuredParse, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Absent, nil
	}
	field, ok := obj[CommentField]
	if !ok {
		return Absent, nil
	}
	if strings.Contains(fmt.Sprint(field), m.ID) {
		return Present, nil
	}
	return Absent, nil
}

// decodeJSON parses exactly one JSON value, keeping numbers verbatim.
// A leading byte order mark is ignored.
func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimPrefix(text, utf8BOM)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}
