// Package signer computes the legacy HMAC request signature for OBS-style
// object storage APIs.
//
// Signing is a pure function of the SigningContext and a single atomic
// credentials snapshot: it performs no network I/O and holds no hidden
// state, so two Sign calls with the same inputs produce byte-identical
// Authorization headers.
package signer

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // legacy hash mandated by the signature scheme
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/noaccident/obsup/pkg/credentials"
	"github.com/noaccident/obsup/pkg/transport"
)

// Sentinel errors for signing operations.
var (
	// ErrInvalidTarget indicates the endpoint, bucket and key cannot be
	// decomposed into a canonical resource.
	ErrInvalidTarget = errors.New("invalid request target")

	// ErrInvalidConfiguration indicates an unusable signer configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// authScheme tags the Authorization header value.
const authScheme = "OBS"

// dateLayout is the RFC-1123 date rendering required by the signature
// scheme. time.Format is locale-independent, which keeps signatures
// reproducible across deployments.
const dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Signer assembles signed headers for outgoing requests.
//
// Safe for concurrent use: the only shared state is the credential store,
// which is independently synchronized.
type Signer struct {
	endpoint *url.URL
	store    *credentials.Store

	// now is the clock used when a SigningContext has no explicit
	// timestamp. Injectable for deterministic tests.
	now func() time.Time
}

// New builds a Signer for the given service endpoint, e.g.
// "https://obs.eu-west-101.example.com". The bucket is prepended to the
// endpoint host per request (virtual-hosted addressing).
func New(endpoint string, store *credentials.Store) (*Signer, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: parse endpoint %q: %v", ErrInvalidConfiguration, endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: endpoint %q must be an absolute http(s) URL", ErrInvalidConfiguration, endpoint)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: nil credential store", ErrInvalidConfiguration)
	}
	return &Signer{endpoint: u, store: store, now: time.Now}, nil
}

// Sign resolves the effective timestamp, assembles the wire headers,
// canonicalizes them together with the target resource, and computes the
// Authorization header from a single credentials snapshot.
func (s *Signer) Sign(sc SigningContext) (*transport.Request, error) {
	if sc.Method == "" || sc.Bucket == "" || sc.Key == "" {
		return nil, fmt.Errorf("%w: method, bucket and key are required", ErrInvalidTarget)
	}
	if strings.ContainsAny(sc.Bucket, "/?#") {
		return nil, fmt.Errorf("%w: bucket %q", ErrInvalidTarget, sc.Bucket)
	}

	creds := s.store.Get()

	ts := sc.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	date := ts.UTC().Format(dateLayout)

	target := &url.URL{
		Scheme:   s.endpoint.Scheme,
		Host:     sc.Bucket + "." + s.endpoint.Host,
		Path:     "/" + sc.Key,
		RawQuery: sc.Query.Encode(),
	}

	h := make(http.Header)
	h.Set("Host", target.Host)
	h.Set("Date", date)
	if sc.ContentType != "" {
		h.Set("Content-Type", sc.ContentType)
	}
	if sc.ContentMD5 != "" {
		h.Set("Content-MD5", sc.ContentMD5)
	}
	if sc.ContentLength >= 0 {
		h.Set("Content-Length", strconv.FormatInt(sc.ContentLength, 10))
	}
	if creds.IsTemporary() {
		h.Set(headerSecurityToken, creds.SecurityToken)
	}
	if sc.ACL != "" {
		h.Set(headerACL, string(sc.ACL))
	}
	if sc.StorageClass != "" {
		h.Set(headerStorageClass, string(sc.StorageClass))
	}
	for k, v := range sc.Metadata {
		h.Set(metadataPrefix+k, v)
	}
	if sc.SSE != nil {
		sc.SSE.setHeaders(h)
	}

	stringToSign := sc.Method + "\n" +
		sc.ContentMD5 + "\n" +
		sc.ContentType + "\n" +
		date + "\n" +
		canonicalizedHeaders(h) +
		canonicalizedResource(sc.Bucket, sc.Key, sc.Query)

	mac := hmac.New(sha1.New, []byte(creds.SecretKey))
	mac.Write([]byte(stringToSign))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	h.Set("Authorization", authScheme+" "+creds.AccessKey+":"+sig)

	return &transport.Request{Method: sc.Method, URL: target, Header: h}, nil
}
