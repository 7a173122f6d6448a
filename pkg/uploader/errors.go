package uploader

import (
	"errors"
	"fmt"

	"github.com/noaccident/obsup/pkg/signer"
)

// Sentinel errors for upload operations.
var (
	// ErrInvalidConfiguration indicates an unusable uploader configuration
	// or input.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnexpectedResponse indicates the transport reported success but
	// produced no HTTP-shaped response. Not retried.
	ErrUnexpectedResponse = errors.New("unexpected transport response")

	// ErrRetriesExhausted wraps the last transient error once every attempt
	// has been spent.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// HTTPError is a non-2xx response from the service. Body carries the
// structured error document when the service supplied one.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       *ErrorBody
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != nil {
		return fmt.Sprintf("http %d: %s: %s", e.StatusCode, e.Body.Code, e.Body.Message)
	}
	if e.Status != "" {
		return fmt.Sprintf("http %s", e.Status)
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

// Transient reports whether the status is worth retrying (server-side 5xx).
func (e *HTTPError) Transient() bool {
	return e.StatusCode >= 500
}

// NetworkError is a transport-level failure below the HTTP layer.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// FileAccessError is a failure to read the local upload body.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string { return fmt.Sprintf("file %s: %v", e.Path, e.Err) }
func (e *FileAccessError) Unwrap() error { return e.Err }

// IsHTTPError returns the typed HTTP error if err carries one.
func IsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// IsNetworkError returns true if err is a transport-level failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsFileAccessError returns true if err is a local file access failure.
func IsFileAccessError(err error) bool {
	var fe *FileAccessError
	return errors.As(err, &fe)
}

// IsInvalidTarget returns true if err indicates an unusable request target.
func IsInvalidTarget(err error) bool {
	return errors.Is(err, signer.ErrInvalidTarget)
}
