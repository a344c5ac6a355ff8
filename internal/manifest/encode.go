package manifest

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/flarebyte/sealcheck/internal/seal"
	"gopkg.in/yaml.v3"
)

// Format is a manifest serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the serialization from the destination's extension.
func FormatFor(dest string) Format {
	switch strings.ToLower(path.Ext(dest)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serializes m in format f.
func Encode(m Manifest, f Format) ([]byte, error) {
	if f == FormatYAML {
		return EncodeYAML(m)
	}
	return EncodeJSON(m)
}

// EncodeJSON returns m indented by two spaces, HTML characters unescaped,
// with a trailing newline.
func EncodeJSON(m Manifest) ([]byte, error) {
	if m.Files == nil {
		m.Files = []seal.FileRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeYAML returns m as YAML with the same field names and order as the
// JSON form.
func EncodeYAML(m Manifest) ([]byte, error) {
	top := &yaml.Node{Kind: yaml.MappingNode}
	top.Content = append(top.Content,
		scalarNode("gkci"), stringNode(m.ID),
		scalarNode("oath"), stringNode(m.Oath),
		scalarNode("project"), stringNode(m.Project),
		scalarNode("generated_at_utc"), stringNode(m.GeneratedAtUTC),
		scalarNode("files"), filesNode(m.Files),
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

func filesNode(files []seal.FileRecord) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	if len(files) == 0 {
		n.Style = yaml.FlowStyle
	}
	for _, f := range files {
		item := &yaml.Node{Kind: yaml.MappingNode}
		item.Content = append(item.Content,
			scalarNode("path"), stringNode(f.Path),
			scalarNode("ext"), stringNode(f.Ext),
			scalarNode("header_present"), boolNode(f.HeaderPresent),
			scalarNode("sha256"), stringNode(f.SHA256),
		)
		n.Content = append(n.Content, item)
	}
	return n
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// stringNode lets the encoder quote values that would otherwise read back
// as another type.
func stringNode(v string) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}

func boolNode(v bool) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}
