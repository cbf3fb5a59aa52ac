package manager

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sllm/internal/execx"
)

// PullFailedError reports that downloading the runtime image or the model
// failed. ExitCode is -1 when the runtime CLI could not be executed at all.
type PullFailedError struct {
	Artifact string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *PullFailedError) Error() string {
	msg := fmt.Sprintf("couldn't pull %q (exit code %d)", e.Artifact, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *PullFailedError) Unwrap() error { return e.Err }

// IsPullFailed reports whether err is (or wraps) a PullFailedError.
func IsPullFailed(err error) bool {
	var pe *PullFailedError
	return errors.As(err, &pe)
}

// StartFailedError reports that the server container could not be launched.
type StartFailedError struct {
	Name     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *StartFailedError) Error() string {
	msg := fmt.Sprintf("server %q could not be started (exit code %d)", e.Name, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *StartFailedError) Unwrap() error { return e.Err }

// IsStartFailed reports whether err is (or wraps) a StartFailedError.
func IsStartFailed(err error) bool {
	var se *StartFailedError
	return errors.As(err, &se)
}

// ReadinessTimeoutError reports that the server was launched but never passed
// its health check within the retry budget.
type ReadinessTimeoutError struct {
	Attempts int
	Elapsed  time.Duration
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("server did not become ready after %d attempts (%s)", e.Attempts, e.Elapsed)
}

// IsReadinessTimeout reports whether err is (or wraps) a ReadinessTimeoutError.
func IsReadinessTimeout(err error) bool {
	var re *ReadinessTimeoutError
	return errors.As(err, &re)
}

func stderrOf(err error) string {
	var ee *execx.ExitError
	if errors.As(err, &ee) {
		return ee.Stderr
	}
	return ""
}

func pullFailed(artifact string, err error) error {
	return &PullFailedError{Artifact: artifact, ExitCode: execx.ExitCode(err), Stderr: stderrOf(err), Err: err}
}

func startFailed(name string, err error) error {
	return &StartFailedError{Name: name, ExitCode: execx.ExitCode(err), Stderr: stderrOf(err), Err: err}
}
