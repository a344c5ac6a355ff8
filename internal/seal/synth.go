package seal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flarebyte/sealcheck/internal/dialect"
)

// Synthesize returns the full new content of a file: the header for dialect
// d followed by the original text. Structured documents are parsed, given a
// CommentField and re-encoded canonically (sorted keys, two-space indent),
// so their original layout is not preserved.
//
// A leading byte order mark stays first. For line dialects a leading "#!"
// line stays first and the header follows it. Header lines end in "\r\n"
// when the first line of text does.
func Synthesize(text string, d dialect.Dialect, m Marker, md Metadata) ([]byte, error) {
	if d.Kind == dialect.Structured {
		return synthesizeStructured(text, m, md)
	}
	lines, err := headerLines(d, m, md)
	if err != nil {
		return nil, err
	}

	body, hasBOM := strings.CutPrefix(text, utf8BOM)
	eol := lineEnding(body)

	var buf strings.Builder
	if hasBOM {
		buf.WriteString(utf8BOM)
	}
	if d.Kind == dialect.Line && strings.HasPrefix(body, "#!") {
		shebang, rest, found := strings.Cut(body, "\n")
		buf.WriteString(shebang)
		if found {
			buf.WriteString("\n")
		} else {
			buf.WriteString(eol)
		}
		body = rest
	}
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteString(eol)
	}
	buf.WriteString(body)
	return []byte(buf.String()), nil
}

func headerLines(d dialect.Dialect, m Marker, md Metadata) ([]string, error) {
	banner, attribution := m.Banner(), m.Attribution(md)
	switch d.Kind {
	case dialect.Line:
		return []string{
			d.LinePrefix + " " + banner,
			d.LinePrefix + " " + attribution,
		}, nil
	case dialect.Block:
		return []string{
			d.LinePrefix + " " + banner,
			d.LinePrefix + " " + attribution,
			d.BlockTerminator,
		}, nil
	case dialect.Markup:
		return []string{
			d.LinePrefix + " " + banner + " " + d.MarkupTerminator,
			d.LinePrefix + " " + attribution + " " + d.MarkupTerminator,
		}, nil
	default:
		return nil, fmt.Errorf("%w: dialect %s", ErrNotApplicable, d.Kind)
	}
}

func lineEnding(text string) string {
	first, _, found := strings.Cut(text, "\n")
	if found && strings.HasSuffix(first, "\r") {
		return "\r\n"
	}
	return "\n"
}

func synthesizeStructured(text string, m Marker, md Metadata) ([]byte, error) {
	v, err := decodeJSON(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotApplicable, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrNotApplicable)
	}
	obj[CommentField] = m.Comment(md)
	return encodeCanonicalJSON(obj)
}

func encodeCanonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
