package stage

import (
	"cmp"
	"slices"
	"strings"
)

// RecError is attached to a record that a stage could not handle.
type RecError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// oneLine collapses whitespace so every reported error fits on a line.
func oneLine(msg string) string {
	s := strings.Join(strings.Fields(msg), " ")
	if s == "" {
		return "error"
	}
	return s
}

// recordFailure marks rec as failed in stageName and returns the matching
// envelope error.
func recordFailure(rec Record, stageName string, err error) (Record, *Error) {
	msg := oneLine(err.Error())
	rec.Error = &RecError{Stage: stageName, Message: msg}
	return rec, &Error{Stage: stageName, Locator: rec.Locator, Message: msg}
}

// stageErrors gathers the per-record errors of one stage and remembers the
// first fatal one. Only the goroutine merging worker results touches it.
type stageErrors struct {
	list  []Error
	fatal error
}

func (s *stageErrors) add(e *Error, fatal error) {
	if e != nil {
		s.list = append(s.list, *e)
	}
	if fatal != nil && s.fatal == nil {
		s.fatal = fatal
	}
}

func (s *stageErrors) addf(stageName, locator string, err error) {
	s.list = append(s.list, Error{Stage: stageName, Locator: locator, Message: err.Error()})
}

// flush appends the gathered errors to out and keeps out.Errors ordered.
func (s *stageErrors) flush(out *Envelope) {
	if len(s.list) == 0 {
		return
	}
	for _, e := range s.list {
		e.Message = oneLine(e.Message)
		out.Errors = append(out.Errors, e)
	}
	SortErrors(out)
}

// SortErrors orders envelope errors by stage, then locator, then message.
func SortErrors(env *Envelope) {
	if env == nil {
		return
	}
	slices.SortStableFunc(env.Errors, func(a, b Error) int {
		return cmp.Or(
			cmp.Compare(a.Stage, b.Stage),
			cmp.Compare(a.Locator, b.Locator),
			cmp.Compare(a.Message, b.Message),
		)
	})
}
