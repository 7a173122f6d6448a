package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// HTTPTransport sends requests over a standard *http.Client.
type HTTPTransport struct {
	client *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport wraps client. A nil client uses http.DefaultClient;
// callers that need connection or response-header timeouts configure them
// on the client they pass in.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

// SendBuffered implements Transport.
func (t *HTTPTransport) SendBuffered(ctx context.Context, req *Request, body []byte) (*Response, error) {
	httpReq, err := t.build(ctx, req)
	if err != nil {
		return nil, err
	}
	httpReq.Body = io.NopCloser(bytes.NewReader(body))
	httpReq.ContentLength = int64(len(body))
	httpReq.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return t.do(httpReq)
}

// SendFile implements Transport. The file is opened per call and streamed;
// it is never read into memory as a whole.
func (t *HTTPTransport) SendFile(ctx context.Context, req *Request, path string) (*Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload body: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat upload body: %w", err)
	}

	httpReq, err := t.build(ctx, req)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	httpReq.Body = f
	httpReq.ContentLength = info.Size()
	return t.do(httpReq)
}

// SendEmpty implements Transport.
func (t *HTTPTransport) SendEmpty(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := t.build(ctx, req)
	if err != nil {
		return nil, err
	}
	httpReq.ContentLength = 0
	return t.do(httpReq)
}

func (t *HTTPTransport) build(ctx context.Context, req *Request) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	// net/http carries Host on the request struct, not in the header map.
	if host := req.Header.Get("Host"); host != "" {
		httpReq.Host = host
		httpReq.Header.Del("Host")
	}
	return httpReq, nil
}

func (t *HTTPTransport) do(httpReq *http.Request) (*Response, error) {
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}
