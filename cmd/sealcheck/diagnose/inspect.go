package diagnose

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/flarebyte/sealcheck/internal/dialect"
	"github.com/flarebyte/sealcheck/internal/seal"
)

// Inspect reads path and reports its dialect and marker presence without
// writing anything. Content problems are reported in Report.Error; only an
// unreadable file is an error.
func Inspect(path, root string, m seal.Marker) (Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, err
	}
	if info.IsDir() {
		return Report{}, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Path:     relativize(path, root),
		Ext:      dialect.Ext(path),
		Dialect:  "none",
		Presence: seal.Absent.String(),
		SHA256:   seal.Hash(data),
		Size:     len(data),
	}
	d, ok := dialect.Lookup(r.Ext)
	if ok {
		r.Dialect = d.Kind.String()
		r.Eligible = true
	}
	if !utf8.Valid(data) {
		r.Presence = seal.Undetermined.String()
		r.Error = seal.ErrDecode.Error()
		return r, nil
	}
	text := string(data)
	if !ok {
		r.HeaderPresent = seal.ScanHead(text, m)
	} else {
		p, err := seal.Detect(text, d, m)
		if err != nil {
			r.Error = err.Error()
		}
		r.HeaderPresent = p == seal.Present
	}
	if r.HeaderPresent {
		r.Presence = seal.Present.String()
	} else if r.Error != "" {
		r.Presence = seal.Undetermined.String()
	}
	return r, nil
}
