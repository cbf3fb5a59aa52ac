package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RequestTimeoutError reports a request that did not finish within its
// timeout. The model is considered slow, not broken.
type RequestTimeoutError struct {
	Kind    string // "completion" or "canary"
	Timeout time.Duration
}

func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out after %s", e.Kind, e.Timeout)
}

// IsRequestTimeout reports whether err is (or wraps) a RequestTimeoutError.
func IsRequestTimeout(err error) bool {
	var te *RequestTimeoutError
	return errors.As(err, &te)
}

// ModelMalfunctionError reports a failed canary check: the model answered
// something other than "pong", or did not answer in time (Err is then a
// *RequestTimeoutError).
type ModelMalfunctionError struct {
	Reply string
	Err   error
}

func (e *ModelMalfunctionError) Error() string {
	if e.Err != nil {
		return "model is malfunctioning: canary failed: " + e.Err.Error()
	}
	reply := e.Reply
	if len(reply) > 80 {
		reply = reply[:80] + "..."
	}
	return fmt.Sprintf("model is malfunctioning: canary expected %q, got %q", canaryReply, reply)
}

func (e *ModelMalfunctionError) Unwrap() error { return e.Err }

// IsModelMalfunction reports whether err is (or wraps) a ModelMalfunctionError.
func IsModelMalfunction(err error) bool {
	var me *ModelMalfunctionError
	return errors.As(err, &me)
}

// TransportError reports that the server could not be reached at all
// (connection refused, unreachable host, reset connection).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach model server at %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	Status string
	Code   int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return "model server http error: " + e.Status
	}
	return "model server http error: " + e.Status + ": " + body
}

// IsHTTPStatus reports whether err is (or wraps) an HTTPStatusError.
func IsHTTPStatus(err error) bool {
	var he *HTTPStatusError
	return errors.As(err, &he)
}
