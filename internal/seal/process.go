package seal

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/flarebyte/sealcheck/internal/dialect"
	"github.com/natefinch/atomic"
	"golang.org/x/text/unicode/norm"
)

// FileRecord is the manifest entry of one processed file.
type FileRecord struct {
	Path          string `json:"path"`
	Ext           string `json:"ext"`
	HeaderPresent bool   `json:"header_present"`
	SHA256        string `json:"sha256"`
}

// File is a candidate handed to the processor. Rel is root-relative with
// posix separators; Data is the content as read before processing.
type File struct {
	Abs  string
	Rel  string
	Data []byte
}

// Result is the outcome of Process.
type Result struct {
	Record FileRecord
	// Changed is set when the file was rewritten.
	Changed bool
	// Audit is set for files with no dialect: recorded, never written.
	Audit bool
	// Reason explains why an absent header was left absent.
	Reason string
}

// Processor stamps files with Marker. The zero value of WriteFile and
// ReadFile selects an atomic rename-into-place write and os.ReadFile.
type Processor struct {
	Marker   Marker
	Metadata Metadata
	Mutate   bool

	WriteFile func(path string, data []byte) error
	ReadFile  func(path string) ([]byte, error)
}

// Process classifies f, detects the marker and, when mutation is allowed
// and the marker is absent, rewrites the file with a header. The returned
// record always describes the bytes on disk after the call.
//
// Errors wrapping ErrDecode or ErrStructuredParse mean the file was skipped
// and the Result is empty. A *WriteError comes with a Result describing the
// unmodified file.
func (p *Processor) Process(f File) (Result, error) {
	rel := norm.NFC.String(f.Rel)
	rec := FileRecord{Path: rel, Ext: dialect.Ext(f.Rel)}
	if !utf8.Valid(f.Data) {
		return Result{}, fmt.Errorf("%s: %w", rel, ErrDecode)
	}
	text := string(f.Data)

	d, ok := dialect.Lookup(rec.Ext)
	if !ok {
		rec.HeaderPresent = ScanHead(text, p.Marker)
		rec.SHA256 = Hash(f.Data)
		return Result{Record: rec, Audit: true}, nil
	}

	presence, err := Detect(text, d, p.Marker)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", rel, err)
	}
	if presence == Present {
		rec.HeaderPresent = true
		rec.SHA256 = Hash(f.Data)
		return Result{Record: rec}, nil
	}
	if !p.Mutate {
		rec.SHA256 = Hash(f.Data)
		return Result{Record: rec, Reason: "check-only"}, nil
	}

	out, err := Synthesize(text, d, p.Marker, p.Metadata.ForPath(rel))
	if errors.Is(err, ErrNotApplicable) {
		rec.SHA256 = Hash(f.Data)
		return Result{Record: rec, Reason: err.Error()}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", rel, err)
	}
	if err := p.write(f.Abs, out); err != nil {
		rec.SHA256 = Hash(f.Data)
		return Result{Record: rec}, &WriteError{Path: rel, Err: err}
	}

	rec.HeaderPresent = true
	final, err := p.read(f.Abs)
	if err != nil {
		// The write was atomic, so the disk holds exactly out.
		final = out
	}
	rec.SHA256 = Hash(final)
	return Result{Record: rec, Changed: true}, nil
}

// write replaces path with data. A file without the owner write bit is
// left alone: a rename would otherwise replace it regardless of its mode.
func (p *Processor) write(path string, data []byte) error {
	if info, err := os.Stat(path); err == nil && info.Mode().Perm()&0o200 == 0 {
		return fmt.Errorf("%s is read-only", path)
	}
	if p.WriteFile != nil {
		return p.WriteFile(path, data)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func (p *Processor) read(path string) ([]byte, error) {
	if p.ReadFile != nil {
		return p.ReadFile(path)
	}
	return os.ReadFile(path)
}

// Hash returns the hex SHA-256 of b.
func Hash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
