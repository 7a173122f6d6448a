// Package uploader delivers signed upload requests over an unreliable
// transport with bounded, classified retries.
//
// Transient failures (5xx responses and allowlisted network conditions) are
// retried with exponential backoff and never observed by the caller unless
// every attempt is spent. Everything else fails fast on first occurrence.
// The caller always receives exactly one terminal error or one success.
package uploader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noaccident/obsup/pkg/signer"
	"github.com/noaccident/obsup/pkg/transport"
)

// DefaultMaxRetries bounds retry attempts when the config leaves it unset.
const DefaultMaxRetries = 3

// DefaultBackoffUnit is the base delay; attempt n waits 2^n units.
const DefaultBackoffUnit = time.Second

// Config tunes the retry behavior of an Uploader.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt, so a
	// value of R yields at most R+1 attempts. Negative means unset.
	MaxRetries int

	// BackoffUnit scales the exponential backoff. Zero uses
	// DefaultBackoffUnit.
	BackoffUnit time.Duration

	// Retryable classifies transport-level errors as transient. Nil uses
	// transport.DefaultRetryable.
	Retryable transport.Retryable

	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// PutInput describes one object upload.
//
// Body and FilePath are mutually exclusive: Body uploads an in-memory
// buffer, FilePath streams the file from disk. Leaving both unset sends an
// empty body.
type PutInput struct {
	Bucket string
	Key    string

	Body     []byte
	FilePath string

	ContentType string
	ContentMD5  string

	Metadata     map[string]string
	ACL          signer.ACL
	StorageClass signer.StorageClass
	SSE          signer.SSE

	// Query carries extra query parameters on the target resource.
	Query url.Values
}

// Uploader signs and delivers upload requests.
//
// It holds no mutable state of its own; the signer's credential store and
// the transport are independently synchronized, so concurrent Put calls
// need no coordination.
type Uploader struct {
	signer    *signer.Signer
	transport transport.Transport

	maxRetries  int
	backoffUnit time.Duration
	retryable   transport.Retryable
	logger      *zap.Logger

	// sleep waits for the backoff delay, honoring ctx cancellation.
	// Injectable for deterministic tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds an Uploader around a signer and a transport.
func New(sg *signer.Signer, tr transport.Transport, cfg Config) (*Uploader, error) {
	if sg == nil || tr == nil {
		return nil, fmt.Errorf("%w: signer and transport are required", ErrInvalidConfiguration)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = DefaultBackoffUnit
	}
	if cfg.Retryable == nil {
		cfg.Retryable = transport.DefaultRetryable
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Uploader{
		signer:      sg,
		transport:   tr,
		maxRetries:  cfg.MaxRetries,
		backoffUnit: cfg.BackoffUnit,
		retryable:   cfg.Retryable,
		logger:      cfg.Logger,
		sleep:       sleepContext,
	}, nil
}

// Put signs the request once and dispatches it with up to MaxRetries+1
// attempts. 5xx responses and retryable transport errors back off
// exponentially (1, 2, 4, ... backoff units); any other failure is raised
// immediately.
func (u *Uploader) Put(ctx context.Context, in PutInput) (*Result, error) {
	if in.Body != nil && in.FilePath != "" {
		return nil, fmt.Errorf("%w: Body and FilePath are mutually exclusive", ErrInvalidConfiguration)
	}

	length, err := u.bodyLength(in)
	if err != nil {
		return nil, err
	}

	req, err := u.signer.Sign(signer.SigningContext{
		Method:        "PUT",
		Bucket:        in.Bucket,
		Key:           in.Key,
		ContentType:   in.ContentType,
		ContentMD5:    in.ContentMD5,
		ContentLength: length,
		Metadata:      in.Metadata,
		ACL:           in.ACL,
		StorageClass:  in.StorageClass,
		SSE:           in.SSE,
		Query:         in.Query,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		resp, err := u.send(ctx, req, in)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !u.retryable(err) {
				return nil, &NetworkError{Err: err}
			}
			lastErr = &NetworkError{Err: err}
			u.logger.Warn("transient network failure",
				zap.String("bucket", in.Bucket),
				zap.String("key", in.Key),
				zap.Int("attempt", attempt),
				zap.Error(err))

		case resp == nil:
			return nil, ErrUnexpectedResponse

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			result := mapResponse(resp)
			drain(resp.Body)
			u.logger.Debug("upload succeeded",
				zap.String("bucket", in.Bucket),
				zap.String("key", in.Key),
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode))
			return result, nil

		default:
			httpErr := &HTTPError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       ParseErrorBody(resp.Body),
			}
			drain(resp.Body)
			if !httpErr.Transient() {
				return nil, httpErr
			}
			lastErr = httpErr
			u.logger.Warn("transient server failure",
				zap.String("bucket", in.Bucket),
				zap.String("key", in.Key),
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode))
		}

		if attempt < u.maxRetries {
			delay := u.backoffUnit << uint(attempt)
			if err := u.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, u.maxRetries+1, lastErr)
}

// bodyLength resolves the declared Content-Length, running the local file
// preflight for file-backed bodies.
func (u *Uploader) bodyLength(in PutInput) (int64, error) {
	if in.FilePath == "" {
		return int64(len(in.Body)), nil
	}
	info, err := os.Stat(in.FilePath)
	if err != nil {
		return 0, &FileAccessError{Path: in.FilePath, Err: err}
	}
	if !info.Mode().IsRegular() {
		return 0, &FileAccessError{Path: in.FilePath, Err: fmt.Errorf("not a regular file")}
	}
	return info.Size(), nil
}

// send picks the transport operation matching the body kind. File-backed
// bodies are streamed by the transport, reopened on each attempt.
func (u *Uploader) send(ctx context.Context, req *transport.Request, in PutInput) (*transport.Response, error) {
	switch {
	case in.FilePath != "":
		return u.transport.SendFile(ctx, req, in.FilePath)
	case in.Body != nil:
		return u.transport.SendBuffered(ctx, req, in.Body)
	default:
		return u.transport.SendEmpty(ctx, req)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drain(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
