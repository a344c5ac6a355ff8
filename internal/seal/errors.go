package seal

import "errors"

var (
	// ErrDecode reports bytes that are not valid UTF-8 text.
	ErrDecode = errors.New("not valid utf-8 text")
	// ErrStructuredParse reports a structured document that cannot be parsed,
	// so marker presence cannot be determined.
	ErrStructuredParse = errors.New("structured document cannot be parsed")
	// ErrNotApplicable reports content the header cannot be injected into.
	ErrNotApplicable = errors.New("header injection not applicable")
)

// WriteError reports a rewrite rejected by the filesystem.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return "write " + e.Path + ": " + e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }
