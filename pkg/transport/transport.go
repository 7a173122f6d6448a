// Package transport abstracts HTTP delivery of signed requests.
//
// The Transport interface exposes exactly the three send shapes the upload
// path needs (buffered, file-streamed, bodyless) so tests can substitute
// deterministic canned responses without any real network access.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Request is a fully-signed outgoing request. The header set already
// contains Authorization, Date, Host and all x-obs- headers.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
}

// Response is the transport-level result of a send.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       io.ReadCloser
}

// Transport sends signed requests.
//
// Implementations must be safe for concurrent use. SendFile streams the file
// from disk rather than buffering it; callers may invoke it again for the
// same path when retrying.
type Transport interface {
	// SendBuffered sends req with an in-memory body.
	SendBuffered(ctx context.Context, req *Request, body []byte) (*Response, error)

	// SendFile sends req streaming the body from the file at path.
	SendFile(ctx context.Context, req *Request, path string) (*Response, error)

	// SendEmpty sends req with no body.
	SendEmpty(ctx context.Context, req *Request) (*Response, error)
}
