// Package dialect maps file extensions to the comment syntax used when a
// provenance header is prepended to a file.
package dialect

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind is the closed set of header insertion rules.
type Kind int

const (
	// Line prefixes every header line with a line-comment token.
	Line Kind = iota + 1
	// Block prefixes every header line with a block opener and closes the
	// header with a terminator line.
	Block
	// Markup wraps every header line in an open and a close token.
	Markup
	// Structured embeds the marker as a metadata field of a data document.
	Structured
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Block:
		return "block"
	case Markup:
		return "markup"
	case Structured:
		return "structured"
	default:
		return "unknown"
	}
}

// Dialect is an immutable insertion rule.
type Dialect struct {
	Kind             Kind
	LinePrefix       string
	BlockTerminator  string
	MarkupTerminator string
}

var (
	hash      = Dialect{Kind: Line, LinePrefix: "#"}
	slashes   = Dialect{Kind: Line, LinePrefix: "//"}
	cssBlock  = Dialect{Kind: Block, LinePrefix: "/*", BlockTerminator: "*/"}
	htmlBlock = Dialect{Kind: Markup, LinePrefix: "<!--", MarkupTerminator: "-->"}
	jsonDoc   = Dialect{Kind: Structured}
)

var table = map[string]Dialect{
	".py": hash, ".rb": hash, ".sh": hash, ".bash": hash, ".zsh": hash,
	".ps1": hash, ".psm1": hash, ".yml": hash, ".yaml": hash, ".toml": hash,
	".ini": hash, ".cfg": hash, ".conf": hash, ".env": hash,

	".js": slashes, ".ts": slashes, ".tsx": slashes, ".jsx": slashes,
	".java": slashes, ".c": slashes, ".h": slashes, ".cpp": slashes,
	".hpp": slashes, ".cs": slashes, ".go": slashes, ".php": slashes,
	".rs": slashes, ".swift": slashes, ".kt": slashes, ".kts": slashes,
	".m": slashes,

	".css": cssBlock, ".scss": cssBlock,

	".md": htmlBlock, ".html": htmlBlock,

	".json": jsonDoc,
}

// Lookup returns the dialect registered for ext. The match ignores case and
// a missing leading dot. ok is false for extensions with no rule.
func Lookup(ext string) (d Dialect, ok bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	d, ok = table[ext]
	return d, ok
}

// Ext returns the lowercase extension of path, including the leading dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Extensions lists every registered extension in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(table))
	for ext := range table {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
