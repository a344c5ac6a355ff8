package stamp

import "github.com/flarebyte/sealcheck/internal/stage"

const (
	exitCodeSuccess = 0
	exitCodeExecErr = 1
	exitCodeMissing = 2
)

type runExitError struct {
	code int
	msg  string
}

func (e runExitError) Error() string { return e.msg }
func (e runExitError) ExitCode() int { return e.code }

// evaluateRunExit maps a finished run to its exit status. Per-file errors
// never fail the run; only missing markers in check-only mode do.
func evaluateRunExit(env stage.Envelope) error {
	if env.Meta == nil || env.Meta.Summary == nil {
		return runExitError{code: exitCodeExecErr, msg: "run produced no summary"}
	}
	if env.Meta.Settings.CheckOnly && env.Meta.Summary.Missing > 0 {
		return runExitError{code: exitCodeMissing, msg: "missing markers remain"}
	}
	return nil
}
