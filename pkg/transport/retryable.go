package transport

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// Retryable decides whether a transport-level error is worth another
// attempt. The executor retries errors the predicate accepts and fails fast
// on everything else.
type Retryable func(err error) bool

// DefaultRetryable classifies the usual transient network conditions:
// timeouts, DNS resolution failures, refused/reset/lost connections, and an
// unreachable network. Anything outside this allowlist is treated as fatal.
//
// Network stacks differ in what they surface for the same outage, so callers
// whose environment produces other transient shapes can substitute their own
// predicate on the uploader.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		// Connection dropped mid-response.
		return true
	}
	return false
}
