package httpres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrNoRequest is returned by Refresh before any request has been issued.
var ErrNoRequest = errors.New("httpres: no request to refresh")

// ErrorTag classifies an infrastructure-level request failure. Completed
// 4xx/5xx responses are not tagged; they flow through the value signal and
// the status handler table instead.
type ErrorTag string

const (
	// TagRequestError marks a network-level transport failure.
	TagRequestError ErrorTag = "HTTP_REQUEST_ERROR"

	// TagTimeout marks cancellation or timeout; the two are not
	// distinguished at this layer.
	TagTimeout ErrorTag = "TIMEOUT"

	// TagUnknown marks any other failure during request construction or
	// execution.
	TagUnknown ErrorTag = "UNKNOWN_ERROR"
)

// RequestError is the typed failure surfaced through both the error signal
// and the verb's return value.
type RequestError struct {
	Tag    ErrorTag
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Tag, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RequestError) Unwrap() error { return e.Err }

// classify maps an execution failure onto its tag. Cancellation is checked
// before transport errors because the http client wraps ctx errors in
// *url.Error.
func classify(err error) ErrorTag {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return TagTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TagTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return TagRequestError
	}
	return TagUnknown
}
