package config

import "github.com/flarebyte/sealcheck/internal/seal"

// Settings is the fully resolved configuration of a run.
type Settings struct {
	Root      string    `json:"root" validate:"required"`
	Project   string    `json:"project" validate:"required"`
	Version   string    `json:"version" validate:"required"`
	CheckOnly bool      `json:"checkOnly"`
	Manifest  string    `json:"manifest" validate:"required"`
	Workers   int       `json:"workers" validate:"min=0,max=256"`
	Progress  bool      `json:"progress"`
	Discovery Discovery `json:"discovery"`
	Filter    Filter    `json:"filter"`
	Marker    Marker    `json:"marker"`
	S3        S3        `json:"s3"`
	Log       Log       `json:"log"`
}

// Discovery holds the skip rules applied while walking the tree.
type Discovery struct {
	SkipDirs         []string `json:"skipDirs"`
	SkipFiles        []string `json:"skipFiles"`
	Exclude          []string `json:"exclude" validate:"dive,required"`
	IncludeUnmapped  bool     `json:"includeUnmapped"`
	MaxUnmappedBytes int64    `json:"maxUnmappedBytes" validate:"min=0"`
}

// Filter holds the optional Lua candidate predicate.
type Filter struct {
	Inline    string `json:"inline"`
	TimeoutMs int    `json:"timeoutMs" validate:"min=0"`
}

// Marker overrides the seal identity.
type Marker struct {
	ID     string `json:"id" validate:"required,excludesall=\n\r"`
	Oath   string `json:"oath" validate:"required,excludesall=\n\r"`
	Title  string `json:"title" validate:"excludesall=\n\r"`
	Author string `json:"author" validate:"excludesall=\n\r"`
}

// S3 configures s3:// manifest destinations.
type S3 struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	UseSSL    bool   `json:"useSSL"`
}

// Log configures the process logger.
type Log struct {
	Level  string `json:"level" validate:"omitempty,oneof=trace debug info warn warning error off disabled"`
	Format string `json:"format" validate:"omitempty,oneof=auto console json"`
}

var DefaultSkipDirs = []string{
	".git", ".github", "node_modules", "dist", "build", "__pycache__",
	".venv", "venv", ".tox", ".mypy_cache", ".idea", ".vscode",
}

var DefaultSkipFiles = []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml"}

const DefaultMaxUnmappedBytes = 512000

const defaultFilterTimeoutMs = 1000

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		Root:     ".",
		Project:  "Repo",
		Version:  "v1.0.0",
		Manifest: "gk_manifest.json",
		Discovery: Discovery{
			SkipDirs:         append([]string(nil), DefaultSkipDirs...),
			SkipFiles:        append([]string(nil), DefaultSkipFiles...),
			MaxUnmappedBytes: DefaultMaxUnmappedBytes,
		},
		Filter: Filter{TimeoutMs: defaultFilterTimeoutMs},
		Marker: Marker{
			ID:     seal.DefaultMarker.ID,
			Oath:   seal.DefaultMarker.Oath,
			Title:  seal.DefaultMarker.Title,
			Author: seal.DefaultMarker.Author,
		},
		S3:  S3{Region: "us-east-1", UseSSL: true},
		Log: Log{Level: "info", Format: "auto"},
	}
}

// SealMarker converts the configured marker.
func (s Settings) SealMarker() seal.Marker {
	return seal.Marker{ID: s.Marker.ID, Oath: s.Marker.Oath, Title: s.Marker.Title, Author: s.Marker.Author}
}
