package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestDefaultRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "timeout", err: timeoutError{}, want: true},
		{name: "wrapped timeout", err: fmt.Errorf("send: %w", timeoutError{}), want: true},
		{name: "dns failure", err: &net.DNSError{Err: "no such host", Name: "bucket.example.com"}, want: true},
		{name: "connection refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: true},
		{name: "connection reset", err: &net.OpError{Op: "read", Err: syscall.ECONNRESET}, want: true},
		{name: "network unreachable", err: &net.OpError{Op: "dial", Err: syscall.ENETUNREACH}, want: true},
		{name: "connection lost mid-response", err: io.ErrUnexpectedEOF, want: true},
		{name: "plain error is fatal", err: errors.New("tls: bad certificate"), want: false},
		{name: "eof is fatal", err: io.EOF, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRetryable(tt.err))
		})
	}
}
